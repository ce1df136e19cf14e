// Package audio joins WAV pronunciations into a single clip for listening
// review.
package audio
