// Package catalog defines the movie catalog resources (directors, genres and
// movies) and wires each onto the generic crud layer with its own rules.
//
// Directors and genres update only their name. Movies must be updated with
// every field except id in one request; anything less is rejected.
package catalog
