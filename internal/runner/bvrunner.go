// Package runner implements the query-file parsing, query execution and
// result-file writing that sit at the core's boundary (spec.md §1 "external
// collaborators", §6 "External interfaces"). None of the parsing or
// dispatch logic here is part of the succinct core itself.
package runner

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/mathefuchs/advanced-datastructures-st22/internal/bitvector"
	"github.com/mathefuchs/advanced-datastructures-st22/internal/util"
)

// bvQueryType enumerates spec.md §6.2's BV query keywords, grounded on
// original_source/.../bv/bv_query.hpp's BVQueryType.
type bvQueryType int

const (
	bvInsert bvQueryType = iota
	bvDelete
	bvFlip
	bvRank
	bvSelect
)

type bvQuery struct {
	typ    bvQueryType
	first  uint64
	second uint64
}

func bvQueryTypeFromString(s string) (bvQueryType, error) {
	switch s {
	case "insert":
		return bvInsert, nil
	case "delete":
		return bvDelete, nil
	case "flip":
		return bvFlip, nil
	case "rank":
		return bvRank, nil
	case "select":
		return bvSelect, nil
	default:
		return 0, fmt.Errorf("could not parse query type %q", s)
	}
}

// ParseBVInput reads spec.md §6.2's BV input file format: an initial bit
// length, that many `0`/`1` lines, then one query per remaining line.
func ParseBVInput(r io.Reader) (*bitvector.BitVector, []bvQuery, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	if !scanner.Scan() {
		return nil, nil, fmt.Errorf("empty bv input file")
	}
	initialSize, err := strconv.ParseUint(strings.TrimSpace(scanner.Text()), 10, 64)
	if err != nil {
		return nil, nil, fmt.Errorf("could not parse initial bit-vector length: %w", err)
	}

	bits := make([]bool, 0, initialSize)
	for uint64(len(bits)) < initialSize {
		if !scanner.Scan() {
			return nil, nil, fmt.Errorf("bv input file ended unexpectedly while reading initial contents")
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "0":
			bits = append(bits, false)
		case "1":
			bits = append(bits, true)
		default:
			return nil, nil, fmt.Errorf("malformed initial bit %q", line)
		}
	}

	var queries []bvQuery
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		typ, err := bvQueryTypeFromString(fields[0])
		if err != nil {
			return nil, nil, err
		}
		q := bvQuery{typ: typ}
		hasSecond := typ == bvInsert || typ == bvRank || typ == bvSelect
		needed := 2
		if !hasSecond {
			needed = 1
		}
		if len(fields) < needed+1 {
			return nil, nil, fmt.Errorf("malformed bv query %q: missing argument", line)
		}
		first, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("malformed bv query argument %q: %w", fields[1], err)
		}
		q.first = first
		if hasSecond {
			second, err := strconv.ParseUint(fields[2], 10, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("malformed bv query argument %q: %w", fields[2], err)
			}
			q.second = second
		}
		if (typ == bvRank || typ == bvSelect) && q.first > 1 {
			return nil, nil, fmt.Errorf("malformed bv query %q: bit argument must be 0 or 1", line)
		}
		if typ == bvInsert && q.second > 1 {
			return nil, nil, fmt.Errorf("malformed bv query %q: bit argument must be 0 or 1", line)
		}
		queries = append(queries, q)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("error reading bv input: %w", err)
	}

	return bitvector.NewFromBits(bits), queries, nil
}

// RunBV executes every parsed BV query against bv, writing rank/select
// results to w (spec.md §6.2/§6.4). Progress is reported through log via
// internal/util.ProgressLogger, one event per query processed.
func RunBV(bv *bitvector.BitVector, queries []bvQuery, w io.Writer, log logrus.FieldLogger) error {
	bw := bufio.NewWriter(w)
	pl := util.NewProgressLogger(log, uint64(len(queries)), "bv-queries", true)
	for _, q := range queries {
		switch q.typ {
		case bvInsert:
			bv.Insert(q.first, q.second != 0)
		case bvDelete:
			bv.Delete(q.first)
		case bvFlip:
			bv.Flip(q.first)
		case bvRank:
			if _, err := fmt.Fprintln(bw, bv.Rank(q.first != 0, q.second)); err != nil {
				return err
			}
		case bvSelect:
			if _, err := fmt.Fprintln(bw, bv.Select(q.first != 0, q.second)); err != nil {
				return err
			}
		}
		pl.Log()
	}
	pl.Finalize()
	return bw.Flush()
}

// ParamString renders the bv-specific parameter tail of spec.md §6.5's
// RESULT line.
func ParamString() string {
	return "param_block_type=uint64" +
		"\tparam_min_leaf=16" +
		"\tparam_initial_leaf=32" +
		"\tparam_max_leaf=64"
}
