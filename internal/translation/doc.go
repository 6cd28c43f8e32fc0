// Package translation turns slide text into the target language through a
// remote text-generation model. It provides the Gemini and OpenAI
// generators, the fail-open translation client with its per-call deadline
// and error classification, and the sequential batch translator with
// progress reporting.
package translation
