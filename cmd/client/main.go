package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gookit/color"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"

	"chat-hub/client"
	"chat-hub/domain"
	"chat-hub/protocol"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	serverURL := flag.String("server", "http://localhost:8080", "Server base URL")
	username := flag.String("user", "", "Username")
	password := flag.String("password", "", "Password")
	email := flag.String("email", "", "Email (register a new account when set)")
	logLevel := flag.String("log-level", "warn", "Log level")
	flag.Parse()

	if *username == "" || *password == "" {
		return fmt.Errorf("both -user and -password are required")
	}
	log := logs.GetLoggerFromString(*logLevel)

	// 1. REST bootstrap: credentials first, everything live goes over the socket.
	rest := client.NewREST(*serverURL)
	var creds client.Credentials
	var err error
	if *email != "" {
		creds, err = rest.Register(*username, *email, *password)
	} else {
		creds, err = rest.Login(*username, *password)
	}
	if err != nil {
		return fmt.Errorf("auth failed: %w", err)
	}
	color.New(color.FgGreen).Printf("Logged in as %s\n", creds.User.Username)

	// 2. Socket session
	wsURL := strings.Replace(*serverURL, "http", "ws", 1) + "/ws"
	socket, err := client.Dial(wsURL, log)
	if err != nil {
		return err
	}
	defer func() { _ = socket.Close() }()

	c := client.New(log, socket, rest, creds.User.ID, creds.User.Username)
	c.OnEvent = func(name string) { repaint(c, name) }

	go func() {
		if err := c.Listen(); err != nil {
			color.New(color.FgRed).Println("Connection lost:", err)
			os.Exit(1)
		}
	}()
	if err := c.Authenticate(); err != nil {
		return err
	}

	// 3. Room selection
	rooms, err := rest.ListRooms()
	if err != nil {
		return fmt.Errorf("listing rooms: %w", err)
	}
	if len(rooms) == 0 {
		room, err := rest.CreateRoom("general", domain.RoomPublic)
		if err != nil {
			return fmt.Errorf("creating default room: %w", err)
		}
		rooms = []domain.Room{room}
	}
	printRooms(rooms)

	room, err := chooseRoom(rooms)
	if err != nil {
		return err
	}
	if err := c.SetCurrentRoom(room); err != nil {
		return fmt.Errorf("entering room: %w", err)
	}
	color.New(color.BgBlack, color.FgCyan).Printf("  ====== %s ======  \n", room.Name)
	for _, m := range c.Store().Messages() {
		printMessage(m)
	}

	// 4. Input loop: plain lines are messages, /-prefixed lines are commands.
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "/") {
			if quit := command(c, line); quit {
				return nil
			}
			continue
		}
		_ = c.NotifyTyping()
		if err := c.SendMessage(line); err != nil {
			color.New(color.FgRed).Println("Send failed:", err)
		}
	}
	return scanner.Err()
}

// command handles /quit, /react and /online. Returns true to exit.
func command(c *client.Client, line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit":
		return true
	case "/react":
		if len(fields) != 3 {
			color.New(color.FgYellow).Println("Usage: /react <messageId> <emoji>")
			return false
		}
		if err := c.React(fields[1], fields[2]); err != nil {
			color.New(color.FgRed).Println("React failed:", err)
		}
	case "/online":
		printOnline(c.Store().OnlineUsers())
	default:
		color.New(color.FgYellow).Println("Unknown command:", fields[0])
	}
	return false
}

func chooseRoom(rooms []domain.Room) (domain.Room, error) {
	fmt.Print("Room number: ")
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return domain.Room{}, fmt.Errorf("no room selected")
	}
	n, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil || n < 1 || n > len(rooms) {
		return domain.Room{}, fmt.Errorf("invalid room number")
	}
	return rooms[n-1], nil
}

func printRooms(rooms []domain.Room) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"#", "Name", "Kind", "Members"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	for i, room := range rooms {
		table.Append([]string{
			strconv.Itoa(i + 1), room.Name, string(room.Kind), strconv.Itoa(len(room.MemberIDs)),
		})
	}
	table.Render()
}

func printOnline(users []domain.PresenceEntry) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"User", "Since"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	for _, u := range users {
		table.Append([]string{u.Username, u.ConnectedAt.Format("15:04:05")})
	}
	table.Render()
}

func printMessage(m domain.Message) {
	stamp := m.CreatedAt.Format("15:04")
	switch m.Kind {
	case domain.MessageSystem:
		color.New(color.FgDarkGray).Printf("[%s] * %s\n", stamp, m.Content)
	default:
		color.New(color.FgCyan).Printf("[%s] %s: ", stamp, m.Sender.Username)
		fmt.Println(m.Content)
		for _, r := range m.Reactions {
			color.New(color.FgYellow).Printf("  %s %s\n", r.Emoji, r.Username)
		}
	}
}

// repaint reacts to live events: new traffic in the current room is
// printed as it lands, presence and typing updates go on their own lines.
func repaint(c *client.Client, name string) {
	switch name {
	case protocol.EventMessage:
		messages := c.Store().Messages()
		if len(messages) > 0 {
			printMessage(messages[len(messages)-1])
		}
	case protocol.EventUserTyping:
		if typing := c.Store().TypingUsers(); len(typing) > 0 {
			color.New(color.FgDarkGray).Printf("%s typing...\n", strings.Join(typing, ", "))
		}
	case protocol.EventOnlineUsers:
		color.New(color.FgDarkGray).Printf("%d online\n", len(c.Store().OnlineUsers()))
	}
}
