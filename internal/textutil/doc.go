// Package textutil cleans free-form text, such as task labels from a
// segmentation plan, before it becomes part of a file name.
package textutil
