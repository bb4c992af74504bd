// Package interactive provides the interactive command-line interface
// for tagwatchd.
package interactive

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/tagwatch/tagwatch-go/pkg/geo"
	"github.com/tagwatch/tagwatch-go/pkg/notify"
	"github.com/tagwatch/tagwatch-go/pkg/orchestrator"
	"github.com/tagwatch/tagwatch-go/pkg/store"
	"github.com/tagwatch/tagwatch-go/pkg/subscription"
)

// Orchestrator is the part of the orchestrator the console drives.
type Orchestrator interface {
	Status() orchestrator.Status
	Subscriptions() []subscription.Subscription
	RemoveSubscription(ctx context.Context, id string) error
}

// Deps are the daemon components the console works with.
type Deps struct {
	Orchestrator Orchestrator
	Store        store.Store
	Recorder     *notify.Recorder

	// Inject delivers a location fix. It reports false when the location
	// sensor is not running.
	Inject func(geo.Point) bool

	// JournalPath is shown by the journal command when set.
	JournalPath string
}

// Console handles interactive mode for tagwatchd.
type Console struct {
	rl   *readline.Instance
	deps Deps
	out  io.Writer
}

// New creates a console with its own readline instance.
func New() (*Console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "tagwatch> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return &Console{rl: rl, out: rl.Stdout()}, nil
}

// Stdout returns a writer that properly coordinates with the readline input.
// Use this for log output to avoid interfering with the command prompt.
func (c *Console) Stdout() io.Writer {
	if c.rl == nil {
		return c.out
	}
	return c.rl.Stdout()
}

// Run starts the interactive command loop. It returns when the user quits
// or ctx is done; quitting calls cancel.
func (c *Console) Run(ctx context.Context, cancel context.CancelFunc, deps Deps) {
	defer c.rl.Close()
	c.deps = deps

	if deps.Recorder != nil {
		go c.followNotifications(ctx)
	}

	c.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := c.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(c.out, "Exiting...")
			cancel()
			return
		}

		if quit := c.Execute(ctx, line); quit {
			fmt.Fprintln(c.out, "Exiting...")
			cancel()
			return
		}
	}
}

// Execute runs one command line and reports whether the user asked to quit.
func (c *Console) Execute(ctx context.Context, line string) bool {
	input := strings.TrimSpace(line)
	if input == "" {
		return false
	}

	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		c.printHelp()

	case "list", "ls", "l":
		c.cmdList()

	case "status", "s":
		c.cmdStatus()

	case "add", "a":
		c.cmdAdd(ctx, args)

	case "remove", "rm":
		c.cmdRemove(ctx, args)

	case "fix", "f":
		c.cmdFix(args)

	case "journal", "j":
		c.cmdJournal(args)

	case "quit", "exit", "q":
		return true

	default:
		fmt.Fprintf(c.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return false
}

func (c *Console) printHelp() {
	fmt.Fprintln(c.out, `
Tagwatch Commands:
  Subscriptions:
    list                                      - List active subscriptions
    add <name> <lat> <lon> <radius> [entry|exit]
                                              - Add a geofence subscription
    remove <id>                               - Remove a subscription (id prefix allowed)

  Runtime:
    status                                    - Show processors and sensors
    fix <lat> <lon>                           - Inject a location fix
    journal [n]                               - Show the last n notifications (default 10)

  General:
    help                                      - Show this help
    quit                                      - Exit`)
}

// cmdList handles the list command.
func (c *Console) cmdList() {
	subs := c.deps.Orchestrator.Subscriptions()
	if len(subs) == 0 {
		fmt.Fprintln(c.out, "No active subscriptions")
		return
	}

	fmt.Fprintf(c.out, "Active subscriptions (%d):\n", len(subs))
	for _, s := range subs {
		place := "<unresolved>"
		if s.Place != nil {
			place = fmt.Sprintf("%s @ %s r=%.0fm", s.Place.Name, s.Place.Center, s.Place.RadiusMeters)
		}
		expiry := ""
		if s.ExpiresAt != nil {
			expiry = " expires " + s.ExpiresAt.Format(time.RFC3339)
		}
		fmt.Fprintf(c.out, "  %s  %-4s %-20s %s%s\n", s.ID, s.Type, s.EventKind, place, expiry)
	}
}

// cmdStatus handles the status command.
func (c *Console) cmdStatus() {
	st := c.deps.Orchestrator.Status()

	fmt.Fprintf(c.out, "Running:          %v\n", st.Running)
	fmt.Fprintf(c.out, "Rebuilds:         %d", st.Rebuilds)
	if !st.LastRebuild.IsZero() {
		fmt.Fprintf(c.out, " (last %s)", st.LastRebuild.Format(time.TimeOnly))
	}
	fmt.Fprintln(c.out)
	fmt.Fprintf(c.out, "Required sensors: %s\n", st.RequiredSensors)
	fmt.Fprintf(c.out, "Active sensors:   %s\n", st.ActiveSensors)

	if len(st.Processors) == 0 {
		fmt.Fprintln(c.out, "Processors:       none")
		return
	}
	fmt.Fprintf(c.out, "Processors (%d):\n", len(st.Processors))
	procs := append([]orchestrator.ProcessorStatus(nil), st.Processors...)
	sort.Slice(procs, func(i, j int) bool { return procs[i].SubscriptionID < procs[j].SubscriptionID })
	for _, p := range procs {
		line := fmt.Sprintf("  %s  %-8s %-20s %s", shortID(p.SubscriptionID), p.Variant, p.EventKind, p.State)
		if p.Zone != nil {
			line += fmt.Sprintf("  zone=%s since %s", p.Zone.CurrentZone, p.Zone.LastTransitionAt.Format(time.TimeOnly))
		}
		if p.DroppedFixes > 0 {
			line += fmt.Sprintf("  dropped=%d", p.DroppedFixes)
		}
		fmt.Fprintln(c.out, line)
	}
}

// cmdAdd handles the add command.
func (c *Console) cmdAdd(ctx context.Context, args []string) {
	if len(args) < 4 {
		fmt.Fprintln(c.out, "Usage: add <name> <lat> <lon> <radius> [entry|exit]")
		fmt.Fprintln(c.out, "  Example: add office 12.9716 77.5946 50 entry")
		return
	}

	lat, err1 := strconv.ParseFloat(args[1], 64)
	lon, err2 := strconv.ParseFloat(args[2], 64)
	radius, err3 := strconv.ParseFloat(args[3], 64)
	if err1 != nil || err2 != nil || err3 != nil {
		fmt.Fprintln(c.out, "Error: lat, lon and radius must be numbers")
		return
	}

	kind := subscription.EventGeofenceEntry
	if len(args) > 4 {
		switch strings.ToLower(args[4]) {
		case "entry", "enter":
		case "exit":
			kind = subscription.EventGeofenceExit
		default:
			fmt.Fprintf(c.out, "Error: unknown trigger %q (use entry or exit)\n", args[4])
			return
		}
	}

	place, err := c.deps.Store.PutPlace(ctx, subscription.Place{
		Name:         args[0],
		Center:       geo.Point{Latitude: lat, Longitude: lon},
		RadiusMeters: radius,
	})
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}

	sub, err := c.deps.Store.Insert(ctx, subscription.Subscription{
		Type:       subscription.TypeUser,
		EventKind:  kind,
		PlaceTagID: place.ID,
		IsActive:   true,
	})
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(c.out, "Added %s subscription %s for %s\n", kind, sub.ID, place.Name)
}

// cmdRemove handles the remove command.
func (c *Console) cmdRemove(ctx context.Context, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(c.out, "Usage: remove <id>")
		return
	}

	id, err := c.resolveID(args[0])
	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}

	if err := c.deps.Orchestrator.RemoveSubscription(ctx, id); err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(c.out, "Removed subscription %s\n", id)
}

// resolveID expands a unique prefix of an active subscription ID. Unknown
// IDs are passed through so stored but inactive subscriptions can be removed.
func (c *Console) resolveID(prefix string) (string, error) {
	var matches []string
	for _, s := range c.deps.Orchestrator.Subscriptions() {
		if s.ID == prefix {
			return s.ID, nil
		}
		if strings.HasPrefix(s.ID, prefix) {
			matches = append(matches, s.ID)
		}
	}
	switch len(matches) {
	case 0:
		return prefix, nil
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("ambiguous id prefix %q matches %d subscriptions", prefix, len(matches))
	}
}

// cmdFix handles the fix command.
func (c *Console) cmdFix(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(c.out, "Usage: fix <lat> <lon>")
		return
	}

	lat, err1 := strconv.ParseFloat(args[0], 64)
	lon, err2 := strconv.ParseFloat(args[1], 64)
	if err1 != nil || err2 != nil {
		fmt.Fprintln(c.out, "Error: lat and lon must be numbers")
		return
	}
	pt := geo.Point{Latitude: lat, Longitude: lon}
	if !pt.Valid() {
		fmt.Fprintf(c.out, "Error: %s is out of range\n", pt)
		return
	}

	if c.deps.Inject == nil || !c.deps.Inject(pt) {
		fmt.Fprintln(c.out, "Location sensor is not running (no geofence subscriptions?)")
		return
	}
	fmt.Fprintf(c.out, "Injected fix %s\n", pt)
}

// cmdJournal handles the journal command.
func (c *Console) cmdJournal(args []string) {
	n := 10
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v <= 0 {
			fmt.Fprintln(c.out, "Usage: journal [n]")
			return
		}
		n = v
	}

	if c.deps.JournalPath != "" {
		fmt.Fprintf(c.out, "Journal file: %s\n", c.deps.JournalPath)
	}
	if c.deps.Recorder == nil {
		fmt.Fprintln(c.out, "No notifications recorded")
		return
	}

	items := c.deps.Recorder.All()
	if len(items) == 0 {
		fmt.Fprintln(c.out, "No notifications yet")
		return
	}
	if len(items) > n {
		items = items[len(items)-n:]
	}
	for _, item := range items {
		c.printNotification(item)
	}
}

func (c *Console) printNotification(n notify.Notification) {
	fmt.Fprintf(c.out, "[%s] %s: %s (sub %s)\n",
		n.Timestamp.Format(time.TimeOnly), n.Title, n.Message, shortID(n.SubscriptionID))
}

// followNotifications prints notifications as they are recorded.
func (c *Console) followNotifications(ctx context.Context) {
	seen := c.deps.Recorder.Total()
	for {
		wake := c.deps.Recorder.Changed()
		select {
		case <-ctx.Done():
			return
		case <-wake:
		}

		items := c.deps.Recorder.All()
		total := c.deps.Recorder.Total()
		fresh := total - seen
		if fresh > len(items) {
			fresh = len(items)
		}
		for _, n := range items[len(items)-fresh:] {
			fmt.Fprint(c.out, "[NOTIFY] ")
			c.printNotification(n)
		}
		seen = total
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
