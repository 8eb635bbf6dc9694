// Package writers turns screening results into serialized outputs.
//
// Design:
//   - Writers own all presentation knowledge (JSON/TSV/summary/FASTA).
//   - The screening core stays domain-only.
//   - JSON goes through pkg/api (v1) for a stable wire format.
package writers
