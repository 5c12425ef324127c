// Package rdf provides a minimal triple graph and Turtle serialiser
// for the hypermedia descriptions this service publishes.
//
// The graph model is deliberately small: IRI, blank node and literal
// terms, insertion-ordered subjects, and prefix compaction on output.
// It covers exactly the document shapes produced by the artifact and
// workspace description builders and nothing more.
package rdf
