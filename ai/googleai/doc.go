// Package googleai provides text generation and embedding clients backed
// by the Google Gemini API.
package googleai
