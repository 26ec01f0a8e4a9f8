package walletbridge

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"yolodash/internal/app/port"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// FileBridge implements port.WalletBridge by reading the wallet address from
// a local file. The file holds one address per line; blank lines and lines
// starting with '#' are ignored. The first line matching the address prefix
// is the connected wallet.
type FileBridge struct {
	filePath      string
	addressPrefix string
	logger        port.Logger
}

var _ port.WalletBridge = (*FileBridge)(nil)

// NewFileBridge creates a new FileBridge.
func NewFileBridge(filePath, addressPrefix string, logger port.Logger) *FileBridge {
	return &FileBridge{
		filePath:      filePath,
		addressPrefix: addressPrefix,
		logger:        logger.With("component", "FileBridge"),
	}
}

// WalletAddress returns the address as a JSON string, or JSON null when the
// file holds no valid address. A missing or unreadable file is an error.
func (b *FileBridge) WalletAddress(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	address, err := b.readAddress()
	if err != nil {
		return nil, err
	}
	if address == "" {
		b.logger.Warn("No valid wallet address found in file", "path", b.filePath)
		return []byte("null"), nil
	}
	return json.Marshal(address)
}

func (b *FileBridge) readAddress() (string, error) {
	file, err := os.Open(b.filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open wallet file %s: %w", b.filePath, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if b.addressPrefix != "" && !strings.HasPrefix(line, b.addressPrefix) {
			b.logger.Info("Skipping invalid wallet address format", "file", b.filePath, "line_number", lineNum, "address", line)
			continue
		}
		return line, nil
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("error scanning wallet file %s: %w", b.filePath, err)
	}
	return "", nil
}
