// Package seqcore holds the driver-agnostic types shared by the seq root
// package, its store drivers and the seqtest contract suite.
package seqcore
