/*
Package drowsy is a real time drowsiness detection library. It locates the face on the
camera frames, crops and normalizes the two eyes, scores their openness with a trained
classifier and raises an alarm once the eyes have stayed closed for a number of consecutive frames.

The package provides a command line interface, supporting various flags for selecting the
face detector, the models and the alarm sound. To check the supported commands type:

	$ drowsy --help

In case you wish to integrate the API in a self constructed environment here is a simple example:

	package main

	import (
		"context"
		"log"

		"github.com/esimov/drowsy"
	)

	func main() {
		p := drowsy.NewPipeline(detector, predictor)
		m := drowsy.NewMonitor(source, display, p, classifier, alerter, nil)
		defer m.Close()

		if err := m.Run(context.Background()); err != nil {
			log.Fatalf("Error monitoring the camera: %s", err.Error())
		}
	}
*/
package drowsy
