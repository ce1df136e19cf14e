// Package speech is a client for the Google Cloud Text-to-Speech REST API.
// It returns LINEAR16 audio, which the API wraps in a WAV container, so the
// clips can be concatenated by package audio without transcoding.
package speech
