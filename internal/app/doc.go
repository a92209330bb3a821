// Package app contains the application lifecycle for the model
// evaluation CLI, decoupled from the entrypoint: configuration, logger
// construction, model loading and result printing.
package app
