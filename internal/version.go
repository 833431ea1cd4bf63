package internal

// Version of deeptranslate
const Version = "0.4.1"
