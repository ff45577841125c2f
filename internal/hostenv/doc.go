// Package hostenv detects which organizational computing environment a
// host belongs to. Collection and interpretation are strictly separated:
// Collect gathers raw evidence (env vars, marker files, hostname, OS
// identity) exactly once per run, Classify reduces that evidence to a
// single Environment verdict through an ordered rule list.
package hostenv
