// Package process runs external tools in their own process group so that
// cancelling a render also stops the helpers they spawn (mktexpk,
// kpsewhich and friends).
package process
