// Package mira provides a small question answering assistant. Queries are
// answered from a local store of trained question/answer pairs, then by
// approximate matching against the stored questions, and finally by an
// external knowledge source such as Wikipedia.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, difflib/, gemini/).
package mira
