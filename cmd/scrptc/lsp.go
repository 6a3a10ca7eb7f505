package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/mgomes/scrptc/scrpt"
)

var lspKeywordDocs = map[string]string{
	"else":  "Reserved word. Not part of any statement form yet.",
	"if":    "`if a < b { ... }` runs the block once when the comparison holds.",
	"input": "`input name;` declares `name` and reads a number from stdin into it.",
	"let":   "`let name = expr;` declares `name` and initialises it.",
	"print": "`print expr;` prints a number with two decimals; `print \"text\";` prints text.",
	"while": "`while a < b { ... }` repeats the block while the comparison holds.",
}

type lspInboundMessage struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id,omitempty"`
	Method  string           `json:"method,omitempty"`
	Params  json.RawMessage  `json:"params,omitempty"`
}

type lspResponseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type lspOutboundMessage struct {
	JSONRPC string            `json:"jsonrpc"`
	ID      *json.RawMessage  `json:"id,omitempty"`
	Method  string            `json:"method,omitempty"`
	Params  any               `json:"params,omitempty"`
	Result  any               `json:"result,omitempty"`
	Error   *lspResponseError `json:"error,omitempty"`
}

type lspDidOpenParams struct {
	TextDocument struct {
		URI  string `json:"uri"`
		Text string `json:"text"`
	} `json:"textDocument"`
}

type lspDidChangeParams struct {
	TextDocument struct {
		URI string `json:"uri"`
	} `json:"textDocument"`
	ContentChanges []struct {
		Text string `json:"text"`
	} `json:"contentChanges"`
}

type lspDidCloseParams struct {
	TextDocument struct {
		URI string `json:"uri"`
	} `json:"textDocument"`
}

type lspTextDocumentPositionParams struct {
	TextDocument struct {
		URI string `json:"uri"`
	} `json:"textDocument"`
	Position struct {
		Line      int `json:"line"`
		Character int `json:"character"`
	} `json:"position"`
}

type lspServer struct {
	reader   *bufio.Reader
	writer   *bufio.Writer
	compiler *scrpt.Compiler
	docs     map[string]string
}

func newLSPServer(in io.Reader, out io.Writer) *lspServer {
	return &lspServer{
		reader:   bufio.NewReader(in),
		writer:   bufio.NewWriter(out),
		compiler: scrpt.MustNewCompiler(scrpt.Config{}),
		docs:     make(map[string]string),
	}
}

func runLSP() error {
	return newLSPServer(os.Stdin, os.Stdout).serve()
}

func (s *lspServer) serve() error {
	for {
		payload, err := s.readPayload()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		var incoming lspInboundMessage
		if err := json.Unmarshal(payload, &incoming); err != nil {
			continue
		}

		for _, msg := range s.handleMessage(incoming) {
			if err := s.writePayload(msg); err != nil {
				return err
			}
		}

		if incoming.Method == "exit" {
			return nil
		}
	}
}

func (s *lspServer) handleMessage(incoming lspInboundMessage) []lspOutboundMessage {
	switch incoming.Method {
	case "initialize":
		return []lspOutboundMessage{
			{
				JSONRPC: "2.0",
				ID:      incoming.ID,
				Result: map[string]any{
					"capabilities": map[string]any{
						"textDocumentSync": 1,
						"hoverProvider":    true,
						"completionProvider": map[string]any{
							"resolveProvider": false,
						},
					},
					"serverInfo": map[string]any{"name": "scrptc"},
				},
			},
		}
	case "initialized", "exit":
		return nil
	case "shutdown":
		if incoming.ID == nil {
			return nil
		}
		return []lspOutboundMessage{{JSONRPC: "2.0", ID: incoming.ID, Result: nil}}
	case "textDocument/didOpen":
		var params lspDidOpenParams
		if err := json.Unmarshal(incoming.Params, &params); err != nil {
			return nil
		}
		s.docs[params.TextDocument.URI] = params.TextDocument.Text
		return []lspOutboundMessage{
			s.publishDiagnostics(params.TextDocument.URI, params.TextDocument.Text),
		}
	case "textDocument/didChange":
		var params lspDidChangeParams
		if err := json.Unmarshal(incoming.Params, &params); err != nil {
			return nil
		}
		if len(params.ContentChanges) == 0 {
			return nil
		}
		latest := params.ContentChanges[len(params.ContentChanges)-1].Text
		s.docs[params.TextDocument.URI] = latest
		return []lspOutboundMessage{
			s.publishDiagnostics(params.TextDocument.URI, latest),
		}
	case "textDocument/didClose":
		var params lspDidCloseParams
		if err := json.Unmarshal(incoming.Params, &params); err != nil {
			return nil
		}
		delete(s.docs, params.TextDocument.URI)
		return nil
	case "textDocument/completion":
		if incoming.ID == nil {
			return nil
		}
		var params lspTextDocumentPositionParams
		if err := json.Unmarshal(incoming.Params, &params); err != nil {
			return []lspOutboundMessage{
				{
					JSONRPC: "2.0",
					ID:      incoming.ID,
					Error:   &lspResponseError{Code: -32602, Message: "invalid completion params"},
				},
			}
		}
		return []lspOutboundMessage{
			{
				JSONRPC: "2.0",
				ID:      incoming.ID,
				Result: map[string]any{
					"isIncomplete": false,
					"items":        completionItems(s.docs[params.TextDocument.URI]),
				},
			},
		}
	case "textDocument/hover":
		if incoming.ID == nil {
			return nil
		}
		var params lspTextDocumentPositionParams
		if err := json.Unmarshal(incoming.Params, &params); err != nil {
			return []lspOutboundMessage{
				{
					JSONRPC: "2.0",
					ID:      incoming.ID,
					Error:   &lspResponseError{Code: -32602, Message: "invalid hover params"},
				},
			}
		}
		source := s.docs[params.TextDocument.URI]
		word := wordAtPosition(source, params.Position.Line, params.Position.Character)
		if word == "" {
			return []lspOutboundMessage{{JSONRPC: "2.0", ID: incoming.ID, Result: nil}}
		}
		return []lspOutboundMessage{
			{
				JSONRPC: "2.0",
				ID:      incoming.ID,
				Result: map[string]any{
					"contents": map[string]any{
						"kind":  "markdown",
						"value": hoverText(word, source),
					},
				},
			},
		}
	default:
		if incoming.ID == nil {
			return nil
		}
		return []lspOutboundMessage{
			{
				JSONRPC: "2.0",
				ID:      incoming.ID,
				Error: &lspResponseError{
					Code:    -32601,
					Message: "method not found",
				},
			},
		}
	}
}

func (s *lspServer) publishDiagnostics(uri, source string) lspOutboundMessage {
	return lspOutboundMessage{
		JSONRPC: "2.0",
		Method:  "textDocument/publishDiagnostics",
		Params: map[string]any{
			"uri":         uri,
			"diagnostics": diagnosticsForSource(s.compiler, source),
		},
	}
}

// diagnosticsForSource reports every invalid token, or else the first parse
// error. Positions are converted to the zero-based form LSP uses.
func diagnosticsForSource(compiler *scrpt.Compiler, source string) []map[string]any {
	_, err := compiler.Compile(source)
	if err == nil {
		return []map[string]any{}
	}

	var lexErr *scrpt.LexError
	if errors.As(err, &lexErr) {
		out := make([]map[string]any, 0, len(lexErr.Invalid))
		for _, tok := range lexErr.Invalid {
			out = append(out, newDiagnostic(source, tok.Pos, utf16Len(tok.Literal), fmt.Sprintf("invalid token %q", tok.Literal)))
		}
		return out
	}

	var parseErr *scrpt.ParseError
	if errors.As(err, &parseErr) {
		return []map[string]any{
			newDiagnostic(source, parseErr.Token.Pos, max(utf16Len(parseErr.Token.Literal), 1), parseErr.Reason),
		}
	}

	return []map[string]any{newDiagnostic(source, scrpt.Position{Line: 1, Column: 1}, 1, err.Error())}
}

func newDiagnostic(source string, pos scrpt.Position, width int, message string) map[string]any {
	line := max(pos.Line-1, 0)
	character := utf16Column(source, line, max(pos.Column-1, 0))
	return map[string]any{
		"range": map[string]any{
			"start": map[string]any{
				"line":      line,
				"character": character,
			},
			"end": map[string]any{
				"line":      line,
				"character": character + width,
			},
		},
		"severity": 1,
		"source":   "scrptc",
		"message":  message,
	}
}

// declaredNames returns the variables a document declares, tolerating
// sources that do not parse.
func declaredNames(source string) []string {
	tokens, _ := scrpt.Tokenize(source)
	seen := make(map[string]struct{})
	var names []string
	expectName := false
	for _, tok := range tokens {
		switch tok.Type {
		case scrpt.TokenWhitespace:
			continue
		case scrpt.TokenLet, scrpt.TokenInput:
			expectName = true
			continue
		case scrpt.TokenIdent:
			if _, ok := seen[tok.Literal]; expectName && !ok {
				seen[tok.Literal] = struct{}{}
				names = append(names, tok.Literal)
			}
		}
		expectName = false
	}
	return names
}

func completionItems(source string) []map[string]any {
	keywords := scrpt.Keywords()
	variables := declaredNames(source)

	items := make([]map[string]any, 0, len(keywords)+len(variables))
	for _, kw := range keywords {
		items = append(items, map[string]any{
			"label":  kw,
			"kind":   14, // Keyword
			"detail": "keyword",
		})
	}
	for _, name := range variables {
		items = append(items, map[string]any{
			"label":  name,
			"kind":   6, // Variable
			"detail": "float variable",
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i]["label"].(string) < items[j]["label"].(string)
	})
	return items
}

func hoverText(word, source string) string {
	if doc, ok := lspKeywordDocs[word]; ok {
		return fmt.Sprintf("`%s` keyword\n\n%s", word, doc)
	}
	for _, name := range declaredNames(source) {
		if name == word {
			return fmt.Sprintf("`float %s`\n\nscrpt variable", word)
		}
	}
	return fmt.Sprintf("`%s`\n\nscrpt symbol", word)
}

// wordAtPosition finds the identifier under an LSP position. character is
// counted in UTF-16 code units.
func wordAtPosition(source string, line, character int) string {
	lines := strings.Split(source, "\n")
	if line < 0 || line >= len(lines) {
		return ""
	}

	runes := []rune(strings.TrimRight(lines[line], "\r"))
	if len(runes) == 0 {
		return ""
	}

	cursor := runeIndex(runes, max(character, 0))
	if cursor == len(runes) {
		cursor--
	}
	if !isWordRune(runes[cursor]) {
		if cursor > 0 && isWordRune(runes[cursor-1]) {
			cursor--
		} else {
			return ""
		}
	}

	start := cursor
	for start > 0 && isWordRune(runes[start-1]) {
		start--
	}
	end := cursor
	for end < len(runes) && isWordRune(runes[end]) {
		end++
	}
	return string(runes[start:end])
}

// runeIndex maps a UTF-16 offset onto an index into runes, clamped to the
// end of the line.
func runeIndex(runes []rune, units int) int {
	for i, r := range runes {
		if units <= 0 {
			return i
		}
		units -= utf16.RuneLen(r)
	}
	return len(runes)
}

// utf16Column converts a rune column on line to UTF-16 code units.
func utf16Column(source string, line, column int) int {
	lines := strings.Split(source, "\n")
	if line >= len(lines) {
		return column
	}
	runes := []rune(lines[line])
	if column > len(runes) {
		return utf16Len(string(runes)) + column - len(runes)
	}
	return utf16Len(string(runes[:column]))
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

func isWordRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func (s *lspServer) readPayload() ([]byte, error) {
	contentLength := -1
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return nil, fmt.Errorf("invalid Content-Length: %w", err)
			}
			contentLength = n
		}
	}

	if contentLength < 0 {
		return nil, errors.New("missing Content-Length header")
	}
	payload := make([]byte, contentLength)
	if _, err := io.ReadFull(s.reader, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (s *lspServer) writePayload(msg lspOutboundMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.writer, "Content-Length: %d\r\n\r\n", len(data)); err != nil {
		return err
	}
	if _, err := s.writer.Write(data); err != nil {
		return err
	}
	return s.writer.Flush()
}
