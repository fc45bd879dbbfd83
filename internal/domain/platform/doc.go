// Package platform maps host OS and architecture identifiers to the tokens
// used in eli release asset names (eli-<platform>-<arch>[.ext]).
package platform
