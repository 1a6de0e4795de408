// Command recshell is an interactive shell that drives one open table
// directly, in-process — no network, no wire protocol. It uses
// readline for line editing and a history file under the user's home
// directory, and dispatches each line to a command handler.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/riverdb/recordstore/internal/bufpool"
	"github.com/riverdb/recordstore/internal/config"
	"github.com/riverdb/recordstore/internal/recordmgr"
	"github.com/riverdb/recordstore/internal/scan"
	"github.com/riverdb/recordstore/internal/schema"
)

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".recshell_history"
	}
	return filepath.Join(home, ".recshell_history")
}

// shell holds the one table this process may have open at a time:
// opening a table while another is open closes the old one once the
// new one has opened successfully.
type shell struct {
	cfg *config.Config
	tbl *recordmgr.Table
	out *readline.Instance
}

func main() {
	var (
		cfgPath  = flag.String("config", "", "path to a recordstore YAML config file")
		histPath = flag.String("history", defaultHistoryPath(), "history file path")
	)
	flag.Parse()

	cfg := &config.Config{}
	cfg.Storage.DataDir = "."
	cfg.BufferPool.Capacity = 16
	cfg.BufferPool.Policy = config.PolicyFIFO
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "recshell> ",
		HistoryFile:     *histPath,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "readline: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = rl.Close() }()

	sh := &shell{cfg: cfg, out: rl}
	defer sh.closeTable()

	fmt.Println("recordstore shell — type \\help for commands")
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil {
			fmt.Println()
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" || line == "\\q" {
			return
		}
		sh.dispatch(line)
	}
}

func (sh *shell) closeTable() {
	if sh.tbl != nil {
		_ = recordmgr.CloseTable(sh.tbl)
		sh.tbl = nil
	}
}

func (sh *shell) dispatch(line string) {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	var err error
	switch cmd {
	case "\\help":
		printHelp()
		return
	case "create":
		err = sh.cmdCreate(args)
	case "open":
		err = sh.cmdOpen(args)
	case "close":
		sh.closeTable()
		return
	case "insert":
		err = sh.cmdInsert(args)
	case "get":
		err = sh.cmdGet(args)
	case "delete":
		err = sh.cmdDelete(args)
	case "update":
		err = sh.cmdUpdate(args)
	case "scan":
		err = sh.cmdScan(args)
	case "count":
		err = sh.cmdCount()
	default:
		err = fmt.Errorf("unknown command %q; try \\help", cmd)
	}
	if err != nil {
		fmt.Printf("error: %v\n", err)
	}
}

func printHelp() {
	fmt.Println(`commands:
  create <table.tbl> <name:type[:len]> ...   define and create a table
  open <table.tbl>                           open an existing table
  close                                      close the open table
  insert <v1> <v2> ...                       insert a record
  get <page> <slot>                          fetch a record by RID
  delete <page> <slot>                       delete a record by RID
  update <page> <slot> <v1> <v2> ...         overwrite a record's payload
  scan [attrNum=value]                       scan, optionally filtered
  count                                      print the table's tuple count
  quit | exit | \q                           leave the shell`)
}

func parseAttrSpec(spec string) (name string, dt schema.DataType, length int, err error) {
	parts := strings.Split(spec, ":")
	if len(parts) < 2 {
		return "", 0, 0, fmt.Errorf("bad attribute spec %q, want name:type[:len]", spec)
	}
	name = parts[0]
	switch strings.ToLower(parts[1]) {
	case "int":
		dt = schema.TypeInt
	case "float":
		dt = schema.TypeFloat
	case "bool":
		dt = schema.TypeBool
	case "string":
		dt = schema.TypeString
		if len(parts) != 3 {
			return "", 0, 0, fmt.Errorf("string attribute %q needs a length: name:string:len", spec)
		}
		length, err = strconv.Atoi(parts[2])
		if err != nil {
			return "", 0, 0, fmt.Errorf("bad string length in %q: %w", spec, err)
		}
	default:
		return "", 0, 0, fmt.Errorf("unknown type in %q", spec)
	}
	return name, dt, length, nil
}

func (sh *shell) cmdCreate(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: create <table.tbl> <name:type[:len]> ...")
	}
	path := filepath.Join(sh.cfg.Storage.DataDir, args[0])

	names := make([]string, 0, len(args)-1)
	types := make([]schema.DataType, 0, len(args)-1)
	lengths := make([]int, 0, len(args)-1)
	for _, spec := range args[1:] {
		name, dt, length, err := parseAttrSpec(spec)
		if err != nil {
			return err
		}
		names = append(names, name)
		types = append(types, dt)
		lengths = append(lengths, length)
	}

	s, err := schema.CreateSchema(names, types, lengths, []int{0})
	if err != nil {
		return err
	}
	if err := recordmgr.CreateTable(path, s); err != nil {
		return err
	}
	fmt.Printf("created %s\n", path)
	return nil
}

func (sh *shell) cmdOpen(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: open <table.tbl>")
	}
	policy, err := bufpool.NewPolicyByName(sh.cfg.BufferPool.Policy)
	if err != nil {
		return err
	}
	path := filepath.Join(sh.cfg.Storage.DataDir, args[0])
	tbl, err := recordmgr.OpenTable(path, sh.cfg.BufferPool.Capacity, policy)
	if err != nil {
		return err
	}
	sh.closeTable()
	sh.tbl = tbl
	fmt.Printf("opened %s (%d tuples)\n", path, tbl.GetNumTuples())
	return nil
}

func (sh *shell) requireOpen() error {
	if sh.tbl == nil {
		return fmt.Errorf("no table open; use `open <table.tbl>` first")
	}
	return nil
}

func setAttrsFromArgs(rec *schema.Record, s *schema.Schema, values []string) error {
	if len(values) != s.NumAttr() {
		return fmt.Errorf("expected %d values, got %d", s.NumAttr(), len(values))
	}
	for i, raw := range values {
		var v any
		switch s.Attrs[i].Type {
		case schema.TypeInt:
			n, err := strconv.ParseInt(raw, 10, 32)
			if err != nil {
				return fmt.Errorf("attribute %d: %w", i, err)
			}
			v = int32(n)
		case schema.TypeFloat:
			f, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return fmt.Errorf("attribute %d: %w", i, err)
			}
			v = f
		case schema.TypeBool:
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return fmt.Errorf("attribute %d: %w", i, err)
			}
			v = b
		case schema.TypeString:
			v = raw
		}
		if err := schema.SetAttr(rec, s, i, v); err != nil {
			return fmt.Errorf("attribute %d: %w", i, err)
		}
	}
	return nil
}

func (sh *shell) cmdInsert(args []string) error {
	if err := sh.requireOpen(); err != nil {
		return err
	}
	s := sh.tbl.Schema()
	rec, err := schema.CreateRecord(s)
	if err != nil {
		return err
	}
	if err := setAttrsFromArgs(rec, s, args); err != nil {
		return err
	}
	if err := sh.tbl.InsertRecord(rec); err != nil {
		return err
	}
	fmt.Printf("inserted at (%d,%d)\n", rec.ID.Page, rec.ID.Slot)
	return nil
}

func parseRID(args []string) (schema.RID, error) {
	if len(args) != 2 {
		return schema.RID{}, fmt.Errorf("usage: <page> <slot>")
	}
	page, err := strconv.ParseInt(args[0], 10, 32)
	if err != nil {
		return schema.RID{}, err
	}
	slot, err := strconv.ParseInt(args[1], 10, 32)
	if err != nil {
		return schema.RID{}, err
	}
	return schema.RID{Page: int32(page), Slot: int32(slot)}, nil
}

func printRecord(rec *schema.Record, s *schema.Schema) {
	vals := make([]string, s.NumAttr())
	for i := range vals {
		v, err := schema.GetAttr(rec, s, i)
		if err != nil {
			vals[i] = fmt.Sprintf("<%v>", err)
			continue
		}
		vals[i] = fmt.Sprintf("%v", v)
	}
	fmt.Printf("(%d,%d): %s\n", rec.ID.Page, rec.ID.Slot, strings.Join(vals, ", "))
}

func (sh *shell) cmdGet(args []string) error {
	if err := sh.requireOpen(); err != nil {
		return err
	}
	rid, err := parseRID(args)
	if err != nil {
		return err
	}
	s := sh.tbl.Schema()
	rec, err := schema.CreateRecord(s)
	if err != nil {
		return err
	}
	if err := sh.tbl.GetRecord(rid, rec); err != nil {
		return err
	}
	printRecord(rec, s)
	return nil
}

func (sh *shell) cmdDelete(args []string) error {
	if err := sh.requireOpen(); err != nil {
		return err
	}
	rid, err := parseRID(args)
	if err != nil {
		return err
	}
	if err := sh.tbl.DeleteRecord(rid); err != nil {
		return err
	}
	fmt.Printf("deleted (%d,%d)\n", rid.Page, rid.Slot)
	return nil
}

func (sh *shell) cmdUpdate(args []string) error {
	if err := sh.requireOpen(); err != nil {
		return err
	}
	if len(args) < 2 {
		return fmt.Errorf("usage: update <page> <slot> <v1> <v2> ...")
	}
	rid, err := parseRID(args[:2])
	if err != nil {
		return err
	}
	s := sh.tbl.Schema()
	rec, err := schema.CreateRecord(s)
	if err != nil {
		return err
	}
	rec.ID = rid
	if err := setAttrsFromArgs(rec, s, args[2:]); err != nil {
		return err
	}
	if err := sh.tbl.UpdateRecord(rec); err != nil {
		return err
	}
	fmt.Printf("updated (%d,%d)\n", rid.Page, rid.Slot)
	return nil
}

func (sh *shell) cmdScan(args []string) error {
	if err := sh.requireOpen(); err != nil {
		return err
	}
	s := sh.tbl.Schema()

	var pred scan.Predicate = scan.AlwaysTrue{}
	if len(args) == 1 {
		parts := strings.SplitN(args[0], "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("usage: scan [attrNum=value]")
		}
		attrNum, err := strconv.Atoi(parts[0])
		if err != nil {
			return err
		}
		rec, err := schema.CreateRecord(s)
		if err != nil {
			return err
		}
		if err := setAttrsFromArgs(rec, s, padTo(s.NumAttr(), attrNum, parts[1])); err != nil {
			return err
		}
		want, err := schema.GetAttr(rec, s, attrNum)
		if err != nil {
			return err
		}
		pred = scan.AttrEquals{AttrNum: attrNum, Want: want}
	}

	sc, err := scan.StartScan(sh.tbl, pred)
	if err != nil {
		return err
	}
	defer func() { _ = sc.Close() }()

	n := 0
	for {
		rec, err := sc.Next()
		if errors.Is(err, scan.ErrNoMoreTuples) {
			break
		}
		if err != nil {
			return err
		}
		printRecord(rec, s)
		n++
	}
	fmt.Printf("(%d matching)\n", n)
	return nil
}

// padTo builds a full set of placeholder values for setAttrsFromArgs
// with only attrNum set to value, so a single-attribute scan filter can
// reuse the typed-value parsing path.
func padTo(numAttr, attrNum int, value string) []string {
	out := make([]string, numAttr)
	for i := range out {
		out[i] = "0"
	}
	out[attrNum] = value
	return out
}

func (sh *shell) cmdCount() error {
	if err := sh.requireOpen(); err != nil {
		return err
	}
	fmt.Println(sh.tbl.GetNumTuples())
	return nil
}
