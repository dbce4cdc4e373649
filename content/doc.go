// Package content converts Markdown and HTML into the constrained node
// tree accepted by the Telegraph API and validates trees before they are
// sent. Everything here is pure and safe for concurrent use.
package content
