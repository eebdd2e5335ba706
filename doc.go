// Package histo provides a concurrent histogram metric for Prometheus-style
// exposition. Observing a value is wait-free (aside from the float sum's
// compare-and-swap loop); collecting a consistent snapshot is done by a
// single reader at a time through a two-shard hot/cold swap.
package histo
