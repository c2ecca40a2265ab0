/*
Package scan implements the streaming structural scanner.

The scanner makes a single forward pass over a raw XML byte stream and
never buffers the whole document; its only growing state is the stack of
currently open elements. It is deliberately tolerant: each malformed
point produces a finding and the pass continues, so one pass surfaces
every structural problem in the input. Only an unrecoverable read error
ends the pass early, recorded as a single fatal finding.

Input is tokenized by a stateful bufio.SplitFunc which understands tags,
text, comments, CDATA sections, processing instructions and doctype
declarations, emitting oversized non-tag regions in buffer-bounded
chunks so memory stays constant regardless of document size.
*/
package scan
