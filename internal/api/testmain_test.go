package api

import (
	"io"
	"log"
	"os"
	"testing"

	"github.com/matiazo/SunHitsIndoorPlant3DSimulator/internal/monitoring"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	monitoring.SetLogger(nil)
	os.Exit(m.Run())
}
