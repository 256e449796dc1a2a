package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/btree-query-bench/btreeidx/index/btree"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

func newDemoCmd() *cobra.Command {
	var (
		order  int
		keys   []int64
		remove []int64
	)
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Insert and remove keys, printing the tree levels after every step",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd.OutOrStdout(), order, keys, remove)
		},
	}
	f := cmd.Flags()
	f.IntVar(&order, "order", 2, "Tree order (nodes hold order..2*order keys)")
	f.Int64SliceVar(&keys, "keys", []int64{15, 3, 14, 6, 12, 1, 17}, "Keys to insert, in order")
	f.Int64SliceVar(&remove, "remove", []int64{3}, "Keys to remove after inserting")
	return cmd
}

func runDemo(w io.Writer, order int, keys, remove []int64) error {
	tree, err := btree.New[int64, string](order)
	if err != nil {
		return err
	}

	step := func(op string, key int64) error {
		fmt.Fprintf(w, "%s %d\n", op, key)
		printTree(w, tree)
		if err := tree.Verify(); err != nil {
			return errors.Wrapf(err, "after %s %d", op, key)
		}
		return nil
	}

	for _, k := range keys {
		tree.Insert(k, fmt.Sprint(k))
		if err := step("insert", k); err != nil {
			return err
		}
	}
	for _, k := range remove {
		if err := tree.Remove(k); err != nil {
			return err
		}
		if err := step("remove", k); err != nil {
			return err
		}
	}
	log.WithField("keys", tree.Len()).WithField("height", tree.Height()).Debug("demo finished")
	return nil
}

func printTree(w io.Writer, tree *btree.Tree[int64, string]) {
	tree.Walk(func(depth int, keys []int64) bool {
		fmt.Fprintf(w, "%s%d: %v\n", strings.Repeat("  ", depth+1), depth, keys)
		return true
	})
}
