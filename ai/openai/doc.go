// Package openai provides text generation and embedding clients for
// OpenAI-compatible APIs, including local inference servers such as
// Ollama and llama.cpp.
package openai
