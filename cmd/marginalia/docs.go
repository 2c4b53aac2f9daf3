package main

// General API documentation for swaggo. Run `swag init -g cmd/marginalia/docs.go`
// to regenerate docs.
//
// @title           marginalia API
// @version         1.0
// @description     Localhost HTTP API for note feedback generation.
//
// @BasePath  /
//
// @schemes http
