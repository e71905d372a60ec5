package main

import (
	"fmt"
	"io"
	"os"

	"maintenance-dispatch/regression"
)

// House sizes in m² and their prices in EUR.
var (
	sizes  = []float64{50, 70, 90, 110, 130, 150}
	prices = []float64{200000, 250000, 300000, 350000, 400000, 450000}
)

const sizeToPredict = 100

func main() {
	if err := run(os.Stdout); err != nil {
		fmt.Fprintf(os.Stdout, "Unexpected error: %v\n", err)
	}
}

func run(w io.Writer) error {
	model, err := regression.Fit(sizes, prices)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Predicted price for a %d m² house: %.2f €\n", sizeToPredict, model.Predict(sizeToPredict))
	fmt.Fprintf(w, "Intercept (base price): %.2f\n", model.Intercept)
	fmt.Fprintf(w, "Coefficient (price per m²): %.2f\n", model.Slope)
	return nil
}
