package models

import (
	"bytes"
	"encoding/json"
)

// Field is an optional request value that remembers whether the key was
// present in the JSON body and whether it was an explicit null.
//
//	{}              -> Set=false
//	{"age": null}   -> Set=true, Null=true
//	{"age": 31}     -> Set=true, Value=31
type Field[T any] struct {
	Value T
	Set   bool
	Null  bool
}

// Some builds a present, non-null field.
func Some[T any](v T) Field[T] {
	return Field[T]{Value: v, Set: true}
}

// Null builds a present, explicitly null field.
func Null[T any]() Field[T] {
	return Field[T]{Set: true, Null: true}
}

// Present reports a set, non-null value.
func (f Field[T]) Present() bool {
	return f.Set && !f.Null
}

// Get returns the value when present, otherwise def.
func (f Field[T]) Get(def T) T {
	if f.Present() {
		return f.Value
	}
	return def
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Null = true
		var zero T
		f.Value = zero
		return nil
	}
	f.Null = false
	return json.Unmarshal(data, &f.Value)
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Present() {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}
