// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package realtime

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Engine.IO v4 packet types, the first byte of every websocket frame.
const (
	engineOpen    byte = '0'
	engineClose   byte = '1'
	enginePing    byte = '2'
	enginePong    byte = '3'
	engineMessage byte = '4'
	engineUpgrade byte = '5'
	engineNoop    byte = '6'
)

// Socket.IO v5 packet types, the second byte of an Engine.IO message.
const (
	socketConnect      byte = '0'
	socketDisconnect   byte = '1'
	socketEvent        byte = '2'
	socketAck          byte = '3'
	socketConnectError byte = '4'
	socketBinaryEvent  byte = '5'
	socketBinaryAck    byte = '6'
)

// packet is one decoded frame. socket is zero unless engine is
// engineMessage. data is whatever follows the type bytes, the
// namespace, and the ack id.
type packet struct {
	engine byte
	socket byte
	data   []byte
}

// engineHandshake is the payload of the open packet.
type engineHandshake struct {
	SID          string `json:"sid"`
	PingInterval int    `json:"pingInterval"`
	PingTimeout  int    `json:"pingTimeout"`
	MaxPayload   int    `json:"maxPayload"`
}

func decodePacket(frame []byte) (packet, error) {
	if len(frame) == 0 {
		return packet{}, errors.New("realtime: empty frame")
	}
	decoded := packet{engine: frame[0], data: frame[1:]}
	switch decoded.engine {
	case engineOpen, engineClose, enginePing, enginePong, engineUpgrade, engineNoop:
		return decoded, nil
	case engineMessage:
	default:
		return packet{}, fmt.Errorf("realtime: unknown engine packet type %q", decoded.engine)
	}

	if len(decoded.data) == 0 {
		return packet{}, errors.New("realtime: message packet without socket type")
	}
	decoded.socket = decoded.data[0]
	rest := decoded.data[1:]

	// Binary attachments count precedes the namespace: "51-[...]".
	if decoded.socket == socketBinaryEvent || decoded.socket == socketBinaryAck {
		return packet{}, errors.New("realtime: binary packets are not supported")
	}

	// Optional namespace, terminated by a comma. Only the default
	// namespace is used.
	if len(rest) > 0 && rest[0] == '/' {
		end := 0
		for end < len(rest) && rest[end] != ',' {
			end++
		}
		if end == len(rest) {
			rest = nil
		} else {
			rest = rest[end+1:]
		}
	}

	// Optional ack id.
	for len(rest) > 0 && rest[0] >= '0' && rest[0] <= '9' {
		rest = rest[1:]
	}
	decoded.data = rest
	return decoded, nil
}

// decodeEvent splits the data of an event packet into its name and
// first argument. A missing argument decodes as JSON null.
func decodeEvent(data []byte) (Event, error) {
	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return Event{}, fmt.Errorf("realtime: malformed event packet: %w", err)
	}
	if len(parts) == 0 {
		return Event{}, errors.New("realtime: event packet without name")
	}
	var name string
	if err := json.Unmarshal(parts[0], &name); err != nil {
		return Event{}, fmt.Errorf("realtime: event name is not a string: %w", err)
	}
	event := Event{Name: name, Data: json.RawMessage("null")}
	if len(parts) > 1 {
		event.Data = parts[1]
	}
	return event, nil
}

func encodeEvent(name string, payload any) ([]byte, error) {
	encoded, err := json.Marshal([]any{name, payload})
	if err != nil {
		return nil, fmt.Errorf("realtime: encoding %s: %w", name, err)
	}
	return append([]byte{engineMessage, socketEvent}, encoded...), nil
}

func encodeConnect(token string) ([]byte, error) {
	encoded, err := json.Marshal(map[string]string{"token": token})
	if err != nil {
		return nil, err
	}
	return append([]byte{engineMessage, socketConnect}, encoded...), nil
}

// connectErrorMessage extracts the reason from a connect_error payload,
// either {"message": "..."} or a bare string.
func connectErrorMessage(data []byte) string {
	var structured struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &structured) == nil && structured.Message != "" {
		return structured.Message
	}
	var plain string
	if json.Unmarshal(data, &plain) == nil && plain != "" {
		return plain
	}
	if len(data) > 0 {
		return string(data)
	}
	return "unknown error"
}
