// Package document models the two pieces of slide state a run edits: the
// datamodel (the slide's flat list of shapes) and the layout tree (nested
// regions that group shapes). It also provides the changeset type that
// describes an edit to the datamodel, together with the deterministic merge
// and diff operations over it.
package document
