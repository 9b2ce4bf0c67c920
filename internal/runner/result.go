package runner

import (
	"fmt"
	"io"
)

// PrintResult writes spec.md §6.5's stdout summary line:
// RESULT\talgo=<bv|bp>\tname=...\ttime=<ms>\tspace=<bits>\t<param list>
// Grounded on original_source/.../main.cpp's print_results.
func PrintResult(w io.Writer, algo string, timeMillis int64, spaceBits uint64, params string) {
	fmt.Fprintf(w, "RESULT\talgo=%s\tname=ads-bench\ttime=%d\tspace=%d\t%s\n",
		algo, timeMillis, spaceBits, params)
}
