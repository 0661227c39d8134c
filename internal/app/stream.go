package app

import (
	"context"
	"crypto/tls"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jkbrsn/textcomp"
	"github.com/jkbrsn/textcomp/internal/feed"
)

// errSkipFrame marks a frame that carries no component, such as a subscription ack.
var errSkipFrame = errors.New("frame carries no component")

// StreamFeed connects to a WebSocket feed, sends the configured subscribe payload and prints
// every component received until ctx is done, the server closes the connection or Count
// components were printed. Frames that fail to decode are logged and skipped.
func (c *Client) StreamFeed(ctx context.Context, target *url.URL) error {
	header, err := parseHeaders(c.Headers)
	if err != nil {
		return err
	}

	f := feed.New(feed.WithLogger(c.Logger))
	defer f.Close()
	if err := f.Dial(ctx, target, header); err != nil {
		return handleConnectionError(err, target.String())
	}
	if !c.Quiet {
		c.Logger.Info().Str("url", target.String()).Msg("Connected to feed")
	}

	var ackID uint64
	switch {
	case c.TextMessage != "":
		err = f.Send([]byte(c.TextMessage))
	case c.RPCMethod != "":
		ackID, err = f.Call(c.RPCMethod, nil)
	}
	if err != nil {
		return fmt.Errorf("failed to send subscribe payload: %w", err)
	}

	codec := c.codec()
	index := 0
	for c.Count == 0 || index < c.Count {
		msg, err := f.Read(ctx)
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return err
		}

		t, err := c.decodeFrame(codec, msg, ackID)
		if errors.Is(err, errSkipFrame) {
			c.Logger.Debug().Int("size", len(msg.Data)).Msg("Skipping frame without component")
			continue
		}
		if err != nil {
			c.Logger.Warn().Err(err).Int("size", len(msg.Data)).Msg("Skipping malformed component")
			continue
		}

		index++
		if err := c.printFeedMessage(index, msg.Received, t); err != nil {
			return err
		}
	}
	return nil
}

// decodeFrame decodes the component carried by a feed frame. Binary frames are NBT records.
// Text frames use the input format; JSON-RPC envelopes are unwrapped to their result, and the
// response to our own subscribe call is skipped.
func (c *Client) decodeFrame(
	codec *textcomp.Codec,
	msg feed.Message,
	ackID uint64,
) (textcomp.Text, error) {
	if msg.Binary {
		return codec.DecodeBinary(msg.Data)
	}

	var raw any
	switch c.InputFormat {
	case formatYAML:
		if err := yaml.Unmarshal(msg.Data, &raw); err != nil {
			return textcomp.Text{}, fmt.Errorf("invalid YAML: %w", err)
		}
	case formatNBT:
		data, err := hex.DecodeString(strings.TrimSpace(string(msg.Data)))
		if err != nil {
			return textcomp.Text{}, fmt.Errorf("invalid hex: %w", err)
		}
		return codec.DecodeBinary(data)
	default:
		if err := json.Unmarshal(msg.Data, &raw); err != nil {
			return textcomp.Text{}, fmt.Errorf("invalid JSON: %w", err)
		}
	}

	raw, err := unwrapJSONRPC(raw, ackID)
	if err != nil {
		return textcomp.Text{}, err
	}
	return codec.Decode(raw)
}

// unwrapJSONRPC returns the component inside a JSON-RPC response or notification. Values that
// are not JSON-RPC envelopes are returned unchanged.
func unwrapJSONRPC(raw any, ackID uint64) (any, error) {
	envelope, ok := raw.(map[string]any)
	if !ok {
		return raw, nil
	}
	if _, isJSONRPC := envelope["jsonrpc"]; !isJSONRPC {
		return raw, nil
	}
	if rpcErr, ok := envelope["error"]; ok {
		return nil, fmt.Errorf("JSON-RPC error: %v", rpcErr)
	}
	if id, ok := envelope["id"].(float64); ok && ackID != 0 && uint64(id) == ackID {
		return nil, errSkipFrame
	}
	if result, ok := envelope["result"]; ok {
		return result, nil
	}
	if params, ok := envelope["params"].(map[string]any); ok {
		if result, ok := params["result"]; ok {
			return result, nil
		}
	}
	return nil, errSkipFrame
}

func handleConnectionError(err error, address string) error {
	// Check for specific TLS errors first
	var tlsErr *tls.RecordHeaderError
	if errors.As(err, &tlsErr) {
		return fmt.Errorf("TLS handshake failed connecting to '%s': %w", address, err)
	}

	errMsg := err.Error()
	if strings.Contains(errMsg, "tls:") || strings.Contains(errMsg, "TLS") {
		return fmt.Errorf("secure WebSocket connection failed to '%s': %w", address, err)
	}

	return fmt.Errorf("WebSocket connection failed to '%s': %w", address, err)
}

func parseHeaders(pairs []string) (http.Header, error) {
	header := http.Header{}
	for _, pair := range pairs {
		parts := strings.SplitN(pair, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid header format: %s", pair)
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if key == "" {
			return nil, fmt.Errorf("invalid header format: %s", pair)
		}
		header.Add(key, value)
	}
	return header, nil
}
