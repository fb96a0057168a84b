// Package interactive provides the interactive command-line interface
// for grocer-send.
package interactive

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/santthosh/grocer/pkg/connection"
	"github.com/santthosh/grocer/pkg/wire"
)

// Sender is the part of a gateway connection the shell drives.
type Sender interface {
	Connect() error
	Read(size int, buf []byte) ([]byte, error)
	Write(content []byte) error
	Close() error
	State() connection.State
	Address() string
	ID() string
}

// Shell handles interactive mode for grocer-send.
type Shell struct {
	sender Sender
	out    io.Writer
	rl     *readline.Instance

	sent     int
	rejected int

	// readFile is replaced in tests.
	readFile func(string) ([]byte, error)
}

// NewShell creates a shell that writes to out. It has no line editor; use
// New for a terminal session.
func NewShell(sender Sender, out io.Writer) *Shell {
	return &Shell{
		sender:   sender,
		out:      out,
		readFile: os.ReadFile,
	}
}

// New creates a shell backed by a readline terminal.
func New(sender Sender) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "grocer> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	s := NewShell(sender, rl.Stdout())
	s.rl = rl
	return s, nil
}

// Stdout returns a writer that properly coordinates with the readline input.
// Use this for log output to avoid interfering with the command prompt.
func (s *Shell) Stdout() io.Writer {
	if s.rl == nil {
		return s.out
	}
	return s.rl.Stdout()
}

// Run starts the interactive command loop.
func (s *Shell) Run(ctx context.Context, cancel context.CancelFunc) {
	defer s.rl.Close()

	s.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.out, "Exiting...")
			cancel()
			return
		}

		if s.Execute(line) {
			cancel()
			return
		}
	}
}

// Stop interrupts a pending prompt so Run returns. A command that is
// already executing finishes first.
func (s *Shell) Stop() {
	if s.rl != nil {
		s.rl.Close()
	}
}

// Execute runs a single command line. It returns true when the shell
// should exit.
func (s *Shell) Execute(line string) bool {
	input := strings.TrimSpace(line)
	if input == "" {
		return false
	}

	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		s.printHelp()

	case "send", "s":
		s.cmdSend(args)

	case "sendfile", "sf":
		s.cmdSendFile(args)

	case "read", "r":
		s.cmdRead(args)

	case "connect":
		s.cmdConnect()

	case "close":
		s.cmdClose()

	case "status":
		s.cmdStatus()

	case "quit", "exit", "q":
		fmt.Fprintln(s.out, "Exiting...")
		_ = s.sender.Close()
		return true

	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return false
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.out, `
Gateway Commands:
  send <hex>            - Write hex-encoded bytes
  sendfile <path>       - Write the contents of a file
  read <n>              - Read n bytes (0 reads until the gateway closes)
  connect               - Connect now instead of on first write
  close                 - Tear down the connection
  status                - Show connection status
  help                  - Show this help
  quit                  - Exit`)
}

func (s *Shell) cmdSend(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(s.out, "Usage: send <hex>")
		return
	}
	content, err := hex.DecodeString(strings.Join(args, ""))
	if err != nil {
		fmt.Fprintf(s.out, "Invalid hex: %v\n", err)
		return
	}
	s.write(content)
}

func (s *Shell) cmdSendFile(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "Usage: sendfile <path>")
		return
	}
	content, err := s.readFile(args[0])
	if err != nil {
		fmt.Fprintf(s.out, "Read failed: %v\n", err)
		return
	}
	s.write(content)
}

func (s *Shell) write(content []byte) {
	err := s.sender.Write(content)
	if err != nil {
		var resp *wire.ErrorResponse
		if errors.As(err, &resp) {
			s.rejected++
		}
		fmt.Fprintf(s.out, "Write failed: %s\n", Describe(err))
		return
	}
	s.sent++
	fmt.Fprintf(s.out, "Sent %d bytes\n", len(content))
}

func (s *Shell) cmdRead(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "Usage: read <n>")
		return
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 {
		fmt.Fprintf(s.out, "Invalid size: %s\n", args[0])
		return
	}
	data, err := s.sender.Read(n, nil)
	if err != nil {
		fmt.Fprintf(s.out, "Read failed: %s\n", Describe(err))
		return
	}
	fmt.Fprintf(s.out, "Read %d bytes: %s\n", len(data), hex.EncodeToString(data))
}

func (s *Shell) cmdConnect() {
	if err := s.sender.Connect(); err != nil {
		fmt.Fprintf(s.out, "Connect failed: %s\n", Describe(err))
		return
	}
	fmt.Fprintf(s.out, "Connected to %s\n", s.sender.Address())
}

func (s *Shell) cmdClose() {
	_ = s.sender.Close()
	fmt.Fprintln(s.out, "Connection closed")
}

func (s *Shell) cmdStatus() {
	fmt.Fprintf(s.out, "Gateway:    %s\n", s.sender.Address())
	fmt.Fprintf(s.out, "Connection: %s\n", s.sender.ID())
	fmt.Fprintf(s.out, "State:      %s\n", s.sender.State())
	fmt.Fprintf(s.out, "Sent:       %d\n", s.sent)
	fmt.Fprintf(s.out, "Rejected:   %d\n", s.rejected)
}

// Describe renders a connection error for a terminal user.
func Describe(err error) string {
	var resp *wire.ErrorResponse
	var expired *connection.CertificateExpiredError

	switch {
	case errors.As(err, &resp):
		return fmt.Sprintf("rejected by gateway: status %s (%d), identifier %d",
			resp.Status, uint8(resp.Status), resp.Identifier)
	case errors.As(err, &expired):
		return "client certificate expired; renew it before retrying"
	case errors.Is(err, connection.ErrUnexpectedSelect):
		return "connection failed after write; the notification may not have been delivered"
	default:
		return err.Error()
	}
}
