// Package domain contains the core entities of the application: exams with
// their sections and questions, grading reports, flashcards and the identity
// supplied by the external identity provider. Entities validate themselves;
// they carry no persistence or transport concerns.
package domain
