// Command derivekit generates Go code for types annotated with //derive:
// directives: conversion constructors for the `from` family and forwarding
// wrappers for the `wrapper` and `wrapper_mut` families.
package main

func main() {
	Execute()
}
