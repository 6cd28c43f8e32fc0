// Package archive moves translation cache files out of the way so the next
// run starts with an empty cache while the old entries stay on disk.
package archive
