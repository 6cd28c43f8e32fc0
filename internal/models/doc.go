// Package models lists the models a provider offers and checks which of
// the known Gemini models answer with the configured API key.
package models
