package version

import (
	"os/exec"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/lk16/flippy/reversi/internal/models"
)

// Commit can be set at build time with -ldflags "-X .../version.Commit=<sha>".
var Commit string

var Version models.VersionResponse

func init() {
	Version.Commit = Commit
	if Version.Commit != "" {
		return
	}

	output, err := exec.Command("git", "rev-parse", "HEAD").Output()
	if err != nil {
		Version.Commit = "unknown"
		return
	}
	Version.Commit = strings.TrimSpace(string(output))
}

func SetupRoutes(app *fiber.App) {
	versionGroup := app.Group("/version")
	versionGroup.Get("/", versionHandler)
}

func versionHandler(c *fiber.Ctx) error {
	return c.JSON(Version)
}
