// Package types defines the work record entity, the candidate Draft shape and
// its validation rules, the RecordStore interface, configuration, and the
// standard errors shared by every workledger component.
package types
