/*
Package util provides general-purpose tasks for common operations in
the mcf server packages.

Operations include helpers to deal with time measurements and GUIDs.
*/
package util
