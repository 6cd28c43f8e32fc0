// Package batch finds the presentations a run should translate: paths
// given on the command line, paths listed in a batch file, or every .pptx
// in a directory.
package batch
