package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/axb35/ecfand/internal/configuration"
)

// fetchJson queries the local daemon and decodes the answer into target.
func fetchJson(path string, target interface{}) error {
	config := configuration.CurrentConfig
	url := fmt.Sprintf("http://%s:%d%s", config.Host, config.Port, path)

	client := http.Client{Timeout: 5 * time.Second}
	response, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("is the daemon running? %w", err)
	}
	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("daemon answered with %s", response.Status)
	}
	return json.NewDecoder(response.Body).Decode(target)
}
