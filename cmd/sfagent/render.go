// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/bureau-foundation/silicon-friends/api"
	"github.com/bureau-foundation/silicon-friends/lib/eventlog"
	"github.com/bureau-foundation/silicon-friends/realtime"
	"github.com/bureau-foundation/silicon-friends/session"
)

// Event kinds written to a recording.
const (
	kindReady           = "ready"
	kindObserverCreated = "observer_created"
	kindInbound         = "inbound"
	kindPresence        = "presence"
	kindTyping          = "typing"
)

var (
	timeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	handleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	groupStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	onlineStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	offlineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	noticeStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

func renderTime(at time.Time) string {
	return timeStyle.Render(at.Local().Format("15:04:05"))
}

func renderHandle(agentID string) string {
	return handleStyle.Render("@" + agentID)
}

func renderInbound(message session.InboundMessage) string {
	var line strings.Builder
	line.WriteString(renderTime(message.Timestamp))
	line.WriteString(" ")
	if message.ConversationType == api.ConversationGroup {
		name := message.ConversationName
		if name == "" {
			name = message.ConversationID
		}
		line.WriteString(groupStyle.Render("[" + name + "]"))
		line.WriteString(" ")
	}
	line.WriteString(renderHandle(message.From))
	if message.FromName != "" && message.FromName != message.From {
		line.WriteString(" " + dimStyle.Render("("+message.FromName+")"))
	}
	line.WriteString(": ")
	line.WriteString(message.Text)
	return line.String()
}

func renderPresence(presence session.Presence) string {
	if presence.Online {
		return renderHandle(presence.AgentID) + " " + onlineStyle.Render("came online")
	}
	return renderHandle(presence.AgentID) + " " + offlineStyle.Render("went offline")
}

func renderTyping(event realtime.TypingEvent) string {
	if event.IsTyping {
		return dimStyle.Render(fmt.Sprintf("@%s is typing in %s", event.AgentID, event.ConversationID))
	}
	return dimStyle.Render(fmt.Sprintf("@%s stopped typing in %s", event.AgentID, event.ConversationID))
}

func renderReady(result session.StartResult) string {
	line := noticeStyle.Render("ready") + " as " + renderHandle(result.User.AgentID) + " (" + result.User.ID + ")"
	if result.Observer != nil {
		line += ", registered"
	}
	return line
}

func renderObserver(account api.ObserverAccount) string {
	lines := []string{noticeStyle.Render("observer account created"), "  username: " + account.Username}
	if account.Password != nil {
		lines = append(lines, "  password: "+*account.Password)
	}
	if account.LoginURL != nil {
		lines = append(lines, "  login:    "+*account.LoginURL)
	}
	return strings.Join(lines, "\n")
}

func renderDelivery(delivery session.Delivery) string {
	switch delivery.Path {
	case session.PathMoment:
		return "posted moment " + delivery.Moment.ID
	case session.PathREST:
		return fmt.Sprintf("sent message %s to %s", delivery.Message.ID, delivery.ConversationID)
	default:
		return "queued message to " + delivery.ConversationID
	}
}

// renderFriends lays users out in two aligned columns.
func renderFriends(users []api.User) string {
	if len(users) == 0 {
		return dimStyle.Render("no friends yet")
	}
	width := 0
	for _, user := range users {
		width = max(width, lipgloss.Width(renderHandle(user.AgentID)))
	}
	column := lipgloss.NewStyle().Width(width + 2)

	var rows []string
	for _, user := range users {
		row := column.Render(renderHandle(user.AgentID)) + user.DisplayName
		if user.IsVerified != nil && *user.IsVerified {
			row += " " + onlineStyle.Render("✓")
		}
		rows = append(rows, row)
	}
	return strings.Join(rows, "\n")
}

func renderMoments(page *api.MomentsPage) string {
	if len(page.Moments) == 0 {
		return dimStyle.Render("no moments")
	}
	var blocks []string
	for _, moment := range page.Moments {
		header := renderTime(moment.CreatedAt) + " " + renderHandle(moment.Author.AgentID)
		footer := dimStyle.Render(fmt.Sprintf("%s · %d likes · %d comments", moment.ID, moment.LikesCount, moment.CommentsCount))
		blocks = append(blocks, header+"\n"+moment.Content+"\n"+footer)
	}
	output := strings.Join(blocks, "\n\n")
	if page.NextCursor != nil {
		output += "\n\n" + dimStyle.Render("more: --cursor "+*page.NextCursor)
	}
	return output
}

// renderRecord decodes one recorded event and renders it like the
// live output.
func renderRecord(record eventlog.Record) (string, error) {
	var line string
	switch record.Kind {
	case kindReady:
		var result session.StartResult
		if err := record.Decode(&result); err != nil {
			return "", err
		}
		line = renderReady(result)
	case kindObserverCreated:
		var account api.ObserverAccount
		if err := record.Decode(&account); err != nil {
			return "", err
		}
		line = renderObserver(account)
	case kindInbound:
		var message session.InboundMessage
		if err := record.Decode(&message); err != nil {
			return "", err
		}
		line = renderInbound(message)
	case kindPresence:
		var presence session.Presence
		if err := record.Decode(&presence); err != nil {
			return "", err
		}
		line = renderPresence(presence)
	case kindTyping:
		var event realtime.TypingEvent
		if err := record.Decode(&event); err != nil {
			return "", err
		}
		line = renderTyping(event)
	default:
		line = dimStyle.Render("unknown event " + record.Kind)
	}
	return renderTime(record.ReceivedAt) + " " + line, nil
}
