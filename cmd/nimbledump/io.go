package main

import (
	"os"

	"github.com/nimblefmt/nimble/stripe"
)

func openTablet(path string) (*stripe.Tablet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return stripe.Open(data)
}
