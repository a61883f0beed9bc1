package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/park285/hotseat-chess/internal/chessclient"
	appcfg "github.com/park285/hotseat-chess/internal/config"
	"github.com/park285/hotseat-chess/pkg/chessdto"
)

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	args := os.Args[1:]
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, helpText())
		os.Exit(2)
	}

	client := chessclient.NewClient(cfg.ServerURL, chessclient.WithTimeout(8*time.Second))
	if err := run(client, strings.ToLower(args[0]), args[1:]); err != nil {
		log.Fatalf("%s: %v", args[0], err)
	}
}

func run(c *chessclient.Client, cmd string, args []string) error {
	if cmd == "watch" {
		return watch(c, args)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	switch cmd {
	case "new":
		st, err := c.Create(ctx)
		if err != nil {
			return err
		}
		printState(st)
	case "show":
		if err := need(args, 1, "show <id>"); err != nil {
			return err
		}
		st, err := c.Get(ctx, args[0])
		if err != nil {
			return err
		}
		printState(st)
	case "move":
		if err := need(args, 3, "move <id> <from> <to>"); err != nil {
			return err
		}
		res, err := c.Move(ctx, args[0], args[1], args[2])
		if err != nil {
			return err
		}
		if res.Message != "" {
			fmt.Println(res.Message)
		}
		printState(res.State)
	case "goto":
		if err := need(args, 2, "goto <id> <index>"); err != nil {
			return err
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("index %q: %w", args[1], err)
		}
		st, err := c.GoTo(ctx, args[0], n)
		if err != nil {
			return err
		}
		printState(st)
	case "legal":
		if err := need(args, 2, "legal <id> <square>"); err != nil {
			return err
		}
		res, err := c.Legal(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		if len(res.Destinations) == 0 {
			fmt.Printf("%s: no legal moves\n", res.Square)
			return nil
		}
		fmt.Printf("%s: %s\n", res.Square, strings.Join(res.Destinations, " "))
	case "png":
		if err := need(args, 2, "png <id> <file> [select]"); err != nil {
			return err
		}
		sel := ""
		if len(args) > 2 {
			sel = args[2]
		}
		img, err := c.BoardPNG(ctx, args[0], sel)
		if err != nil {
			return err
		}
		if err := os.WriteFile(args[1], img, 0o644); err != nil {
			return err
		}
		fmt.Printf("wrote %s (%d bytes)\n", args[1], len(img))
	case "help":
		fmt.Println(helpText())
	default:
		return fmt.Errorf("unknown command, try 'help'")
	}
	return nil
}

func watch(c *chessclient.Client, args []string) error {
	if err := need(args, 1, "watch <id>"); err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	updates, err := c.Watch(ctx, args[0])
	if err != nil {
		return err
	}
	for st := range updates {
		printState(st)
		fmt.Println()
	}
	return nil
}

func need(args []string, n int, usage string) error {
	if len(args) < n {
		return fmt.Errorf("usage: chessctl %s", usage)
	}
	return nil
}

func printState(st *chessdto.GameState) {
	if st == nil {
		return
	}
	fmt.Printf("game %s  position %d/%d  %s\n", st.ID, st.Cursor, st.PositionCount-1, st.Status)
	for i, row := range st.Board {
		fmt.Printf("%d  %s\n", 8-i, strings.Join(strings.Split(row, ""), " "))
	}
	fmt.Println("   a b c d e f g h")
	fmt.Println(st.TurnText)
	if st.PositionText != "" {
		fmt.Println(st.PositionText)
	}
	if st.StatusText != "" {
		fmt.Println(st.StatusText)
	}
	for _, line := range st.History {
		fmt.Println(line)
	}
	if len(st.Captured.White) > 0 || len(st.Captured.Black) > 0 {
		fmt.Printf("captured  white: %s  black: %s  (material %+d)\n",
			strings.Join(st.Captured.White, " "), strings.Join(st.Captured.Black, " "), st.Material.Diff())
	}
}

func helpText() string {
	return strings.Join([]string{
		"♞ hot-seat chess",
		"",
		"• chessctl new",
		"• chessctl show <id>",
		"• chessctl move <id> <from> <to>     e.g. move <id> e2 e4",
		"• chessctl goto <id> <index>         0 = starting position",
		"• chessctl legal <id> <square>",
		"• chessctl png <id> <file> [select]",
		"• chessctl watch <id>",
		"",
		"SERVER_URL selects the server (default " + appcfg.DefaultServerURL + ")",
	}, "\n")
}
