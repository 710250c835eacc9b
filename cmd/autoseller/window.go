package main

import "errors"

// errWindowClosed ends the automation when the user closes the settings window.
var errWindowClosed = errors.New("settings window closed")
