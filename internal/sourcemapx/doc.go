// Package sourcemapx passes source map information around inside a
// generated text stream.
//
// A code generator may output hints about the correspondence between the
// generated text and its original sources inline. Such hints are marked by
// the special `\b` (0x08) magic byte, followed by a variable-length sequence
// of bytes, which can be extracted from the byte slice using ReadHint().
//
// '\b' was chosen as a magic symbol because it would never occur unescaped in
// generated source code, other than when explicitly inserted by a source
// mapping hint. See Hint type documentation for the details of the encoded
// format.
//
// A hint wraps one of:
//
//   - Unmapped marks a generated position without an original counterpart.
//   - Origin points at the position (and optionally the name) in the original
//     source the current generated position corresponds to.
//
// Filter type is used to extract the hints from the written stream and pass
// them into a source map generator. It also ensures that the encoded inline
// hints don't make it into the final output.
package sourcemapx
