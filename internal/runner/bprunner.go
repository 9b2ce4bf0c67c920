package runner

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/mathefuchs/advanced-datastructures-st22/internal/bptree"
	"github.com/mathefuchs/advanced-datastructures-st22/internal/util"
)

// bpQueryType enumerates spec.md §6.3's BP query keywords, grounded on
// original_source/.../bp/query.hpp's BPQueryType.
type bpQueryType int

const (
	bpDeleteNode bpQueryType = iota
	bpInsertChild
	bpChild
	bpSubtreeSize
	bpParent
)

type bpQuery struct {
	typ            bpQueryType
	first          uint64
	second, third  uint64
}

func bpQueryTypeFromString(s string) (bpQueryType, error) {
	switch s {
	case "deletenode":
		return bpDeleteNode, nil
	case "insertchild":
		return bpInsertChild, nil
	case "child":
		return bpChild, nil
	case "subtree_size":
		return bpSubtreeSize, nil
	case "parent":
		return bpParent, nil
	default:
		return 0, fmt.Errorf("could not parse query type %q", s)
	}
}

func bpQueryArgCount(t bpQueryType) int {
	switch t {
	case bpInsertChild:
		return 3
	case bpChild:
		return 2
	default:
		return 1
	}
}

// ParseBPInput reads spec.md §6.3's BP input file format: one query per
// line, the BP tree itself always starting from a single-root "()".
func ParseBPInput(r io.Reader) ([]bpQuery, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var queries []bpQuery
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		typ, err := bpQueryTypeFromString(fields[0])
		if err != nil {
			return nil, err
		}
		argc := bpQueryArgCount(typ)
		if len(fields) < argc+1 {
			return nil, fmt.Errorf("malformed bp query %q: missing argument", line)
		}
		args := make([]uint64, argc)
		for i := 0; i < argc; i++ {
			v, err := strconv.ParseUint(fields[i+1], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("malformed bp query argument %q: %w", fields[i+1], err)
			}
			args[i] = v
		}
		q := bpQuery{typ: typ, first: args[0]}
		if argc >= 2 {
			q.second = args[1]
		}
		if argc >= 3 {
			q.third = args[2]
		}
		queries = append(queries, q)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading bp input: %w", err)
	}
	return queries, nil
}

// RunBP executes every parsed BP query against bp, writing child/
// subtree_size/parent results to w, followed by the pre-order child-count
// traversal (spec.md §6.3/§6.4). Progress is reported through log via
// internal/util.ProgressLogger, one event per query processed.
func RunBP(bp *bptree.BPTree, queries []bpQuery, w io.Writer, log logrus.FieldLogger) error {
	bw := bufio.NewWriter(w)
	pl := util.NewProgressLogger(log, uint64(len(queries)), "bp-queries", true)
	for _, q := range queries {
		switch q.typ {
		case bpDeleteNode:
			bp.DeleteNode(q.first)
		case bpInsertChild:
			bp.InsertNode(q.first, q.second, q.third)
		case bpChild:
			if _, err := fmt.Fprintln(bw, bp.IthChild(q.first, q.second)); err != nil {
				return err
			}
		case bpSubtreeSize:
			if _, err := fmt.Fprintln(bw, bp.SubtreeSize(q.first)); err != nil {
				return err
			}
		case bpParent:
			if _, err := fmt.Fprintln(bw, bp.Parent(q.first)); err != nil {
				return err
			}
		}
		pl.Log()
	}
	pl.Finalize()
	for _, count := range bp.PreOrderChildCounts() {
		if _, err := fmt.Fprintln(bw, count); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// BPParamString renders the bp-specific parameter tail of spec.md §6.5's
// RESULT line.
func BPParamString() string {
	return "param_block_type=uint64" +
		"\tparam_min_leaf=16" +
		"\tparam_initial_leaf=32" +
		"\tparam_max_leaf=64" +
		"\tparam_chunk_size=8"
}
