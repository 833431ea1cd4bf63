// Package processor contains the top level logic of deeptranslate. It builds
// the OCR engine, the translation client and the history store from the
// configuration and runs them in GUI mode, for a single command line
// translation, or for the model and history listings.
package processor
