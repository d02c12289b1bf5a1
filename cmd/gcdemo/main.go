// Command gcdemo is a small interactive harness over internal/gc: track
// objects, wire direct edges and finalizers onto them by hand,
// and trigger collections on demand to watch the generational cycle
// collector work. Modeled on purple_go's own bufio.Scanner-driven REPL
// loop in main.go.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/amirhosseinghanipour/gocyclegc/internal/gc"
	"github.com/amirhosseinghanipour/gocyclegc/internal/object"
)

var verbose = flag.Bool("v", false, "print every object tracked this session after each command")

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "gcdemo - interactive harness for the generational cycle collector\n\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	runREPL()
}

func runREPL() {
	fmt.Println("gcdemo - generational cycle collector")
	fmt.Println("Type 'help' for commands, 'quit' to exit")
	fmt.Println()

	facade := gc.Default()
	headers := make(map[uint64]*object.Header)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("gcdemo> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		cmd := fields[0]
		args := fields[1:]

		switch cmd {
		case "quit", "exit":
			fmt.Println("Goodbye!")
			return
		case "help":
			printHelp()
		case "track":
			handleTrack(facade, headers, args)
		case "finalizer":
			handleFinalizer(headers, args)
		case "link":
			handleLink(headers, args)
		case "unref":
			handleUnref(headers, args)
		case "collect":
			handleCollect(facade, args)
		case "stats":
			handleStats(facade)
		case "uncollectable":
			handleUncollectable(facade)
		case "clear-uncollectable":
			facade.ClearUncollectable()
			fmt.Println("uncollectable list cleared")
		case "threshold":
			handleThreshold(facade, args)
		case "referents":
			handleReferents(facade, args)
		default:
			fmt.Printf("unknown command: %s (try 'help')\n", cmd)
		}

		if *verbose {
			printHeaders(headers)
		}
	}
}

func handleTrack(facade *gc.Facade, headers map[uint64]*object.Header, args []string) {
	typeTag := "node"
	if len(args) > 0 {
		typeTag = args[0]
	}
	h := object.New(typeTag, object.Absent, false)
	h.SetRefcount(1) // the REPL session itself is the one external holder
	if err := facade.Track(h); err != nil {
		fmt.Printf("track error: %v\n", err)
		return
	}
	headers[uint64(h.ID)] = h
	fmt.Printf("tracked %s as object %d (refcount=1)\n", typeTag, h.ID)
}

func handleFinalizer(headers map[uint64]*object.Header, args []string) {
	h, ok := lookup(headers, args, 0)
	if !ok {
		return
	}
	if err := h.SetFinalizer(true); err != nil {
		fmt.Printf("finalizer error: %v\n", err)
		return
	}
	fmt.Printf("object %d now has a finalizer\n", h.ID)
}

func handleLink(headers map[uint64]*object.Header, args []string) {
	if len(args) < 2 {
		fmt.Println("usage: link <from> <to>")
		return
	}
	from, ok := lookup(headers, args, 0)
	if !ok {
		return
	}
	to, ok := lookup(headers, args, 1)
	if !ok {
		return
	}
	from.Payload = object.NewSequence(append(from.Payload.Seq, to.ID)...)
	to.Incref()
	fmt.Printf("linked %d -> %d (object %d refcount now %d)\n", from.ID, to.ID, to.ID, to.Refcount())
}

func handleUnref(headers map[uint64]*object.Header, args []string) {
	h, ok := lookup(headers, args, 0)
	if !ok {
		return
	}
	n, err := h.Decref()
	if err != nil {
		fmt.Printf("unref error: %v\n", err)
		return
	}
	fmt.Printf("object %d refcount now %d\n", h.ID, n)
}

func handleCollect(facade *gc.Facade, args []string) {
	var collected int
	var err error
	switch {
	case len(args) == 0:
		collected, err = facade.Collect()
	case args[0] == "fast":
		collected, err = facade.CollectFast()
	case args[0] == "if-needed":
		collected, err = facade.CollectIfNeeded()
	default:
		genIdx, parseErr := strconv.Atoi(args[0])
		if parseErr != nil {
			fmt.Printf("invalid generation %q\n", args[0])
			return
		}
		collected, err = facade.CollectGeneration(genIdx)
	}
	if err != nil {
		fmt.Printf("collect error: %v\n", err)
		return
	}
	fmt.Printf("collected %d object(s)\n", collected)
}

func handleStats(facade *gc.Facade) {
	s := facade.GetStats()
	fmt.Printf("collections=%d collected=%d uncollectable=%d tracked=%d gen0=%d gen1=%d gen2=%d\n",
		s.Collections, s.Collected, s.Uncollectable, s.TotalTracked,
		s.GenerationCounts[0], s.GenerationCounts[1], s.GenerationCounts[2])
}

func handleUncollectable(facade *gc.Facade) {
	objs := facade.GetUncollectable()
	if len(objs) == 0 {
		fmt.Println("nothing quarantined")
		return
	}
	for _, h := range objs {
		fmt.Printf("  %d (%s)\n", h.ID, h.TypeTag)
	}
}

func handleThreshold(facade *gc.Facade, args []string) {
	if len(args) == 0 {
		fmt.Println("usage: threshold <gen> [newValue]")
		return
	}
	genIdx, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Printf("invalid generation %q\n", args[0])
		return
	}
	if len(args) == 1 {
		t, err := facade.GetThreshold(genIdx)
		if err != nil {
			fmt.Printf("threshold error: %v\n", err)
			return
		}
		fmt.Printf("generation %d threshold = %d\n", genIdx, t)
		return
	}
	newValue, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Printf("invalid threshold %q\n", args[1])
		return
	}
	if err := facade.SetThreshold(genIdx, newValue); err != nil {
		fmt.Printf("threshold error: %v\n", err)
		return
	}
	fmt.Printf("generation %d threshold set to %d\n", genIdx, newValue)
}

func handleReferents(facade *gc.Facade, args []string) {
	id, found := lookupID(args, 0)
	if !found {
		fmt.Println("usage: referents <id>")
		return
	}
	for _, to := range facade.GetReferents(id) {
		fmt.Printf("  -> %d\n", to)
	}
	for _, from := range facade.GetReferrers(id) {
		fmt.Printf("  <- %d\n", from)
	}
}

func lookup(headers map[uint64]*object.Header, args []string, idx int) (*object.Header, bool) {
	id, ok := lookupID(args, idx)
	if !ok {
		return nil, false
	}
	h, exists := headers[uint64(id)]
	if !exists {
		fmt.Printf("no tracked object %d\n", id)
		return nil, false
	}
	return h, true
}

func lookupID(args []string, idx int) (object.ID, bool) {
	if idx >= len(args) {
		return 0, false
	}
	n, err := strconv.ParseUint(args[idx], 10, 64)
	if err != nil {
		fmt.Printf("invalid object id %q\n", args[idx])
		return 0, false
	}
	return object.ID(n), true
}

func printHeaders(headers map[uint64]*object.Header) {
	fmt.Println("--- tracked objects ---")
	for id, h := range headers {
		fmt.Printf("  %d: %s refcount=%d finalizer=%v\n", id, h.TypeTag, h.Refcount(), h.HasFinalizer())
	}
	fmt.Println("--- end ---")
}

func printHelp() {
	fmt.Println("Commands:")
	fmt.Println("  track [typeTag]          - track a new object, refcount starts at 1")
	fmt.Println("  finalizer <id>           - mark an object as having a finalizer")
	fmt.Println("  link <from> <to>         - add a direct edge, increfs the target")
	fmt.Println("  unref <id>               - drop one reference (decref)")
	fmt.Println("  collect [gen|fast|if-needed] - run a collection pass")
	fmt.Println("  stats                    - print collector stats")
	fmt.Println("  uncollectable            - list quarantined objects")
	fmt.Println("  clear-uncollectable      - empty the quarantine list")
	fmt.Println("  threshold <gen> [value]  - get or set a generation's promotion threshold")
	fmt.Println("  referents <id>           - list outgoing/incoming tracked edges")
	fmt.Println("  help                     - show this help")
	fmt.Println("  quit                     - exit")
}
