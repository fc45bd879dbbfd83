// Package setup implements the setup-eli pipeline step.
//
// Run loads settings, resolves the version spec from the step inputs,
// acquires eli through the installer, adds it to the pipeline PATH, runs
// `eli -v` and publishes the detected version as the eli-version output.
package setup
