package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aevoxyz/aevo-sdk/aevo/types"
	"github.com/aevoxyz/aevo-sdk/aevo/ws"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	bidStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("2"))

	askStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("1"))

	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

type tickerMsg ws.Ticker

type errMsg error

type model struct {
	client     *ws.Client
	instrument string
	ticker     *ws.Ticker
	updatedAt  time.Time
	err        error
}

func waitForFrame(client *ws.Client) tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case msg, ok := <-client.Messages():
				if !ok {
					return errMsg(fmt.Errorf("connection closed"))
				}
				if !strings.HasPrefix(msg.Channel, "ticker") {
					continue
				}
				var t ws.Ticker
				if err := json.Unmarshal(msg.Data, &t); err != nil || t.InstrumentName == "" {
					continue
				}
				return tickerMsg(t)
			case err := <-client.Errors():
				return errMsg(err)
			}
		}
	}
}

func (m model) Init() tea.Cmd {
	return waitForFrame(m.client)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case tickerMsg:
		t := ws.Ticker(msg)
		m.ticker = &t
		m.updatedAt = time.Now()
		return m, waitForFrame(m.client)
	case errMsg:
		m.err = msg
		return m, waitForFrame(m.client)
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("aevo ticker: "+m.instrument) + "\n\n")

	if m.ticker == nil {
		b.WriteString(dimStyle.Render("waiting for data...") + "\n")
	} else {
		t := m.ticker
		body := fmt.Sprintf("%s\n%s\nmark  %s\nindex %s",
			bidStyle.Render(fmt.Sprintf("bid   %s x %s", t.Bid.Price, t.Bid.Amount)),
			askStyle.Render(fmt.Sprintf("ask   %s x %s", t.Ask.Price, t.Ask.Amount)),
			t.MarkPrice, t.IndexPrice)
		b.WriteString(borderStyle.Render(body) + "\n")
		b.WriteString(dimStyle.Render("updated "+m.updatedAt.Format("15:04:05")) + "\n")
	}
	if m.err != nil {
		b.WriteString(dimStyle.Render("last error: "+m.err.Error()) + "\n")
	}
	b.WriteString(dimStyle.Render("press q to quit") + "\n")
	return b.String()
}

func main() {
	var (
		env        = flag.String("env", getenv("AEVO_ENV", "testnet"), "environment: testnet or mainnet")
		instrument = flag.String("instrument", "ETH-PERP", "instrument name to stream")
	)
	flag.Parse()

	e, err := types.ParseEnv(*env)
	if err != nil {
		fatal(err)
	}

	client := ws.NewClient(e, "", "", nil)
	if err := client.Start(context.Background()); err != nil {
		fatal(err)
	}
	defer client.Stop()

	if err := client.Subscribe(ws.TickerChannel(*instrument)); err != nil {
		fatal(err)
	}

	p := tea.NewProgram(model{client: client, instrument: *instrument})
	if _, err := p.Run(); err != nil {
		fatal(err)
	}
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err.Error())
	os.Exit(1)
}
