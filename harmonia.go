package harmonia

import (
	"embed"
	"fmt"
	"io/fs"
	"log"
	"regexp"
	"strings"

	"github.com/jaevor/go-nanoid"
)

var (
	ServerName        = "harmonia-server"
	Version    string = "dev"
)

//go:embed all:repos/migrations
var migrationsFS embed.FS
var MigrationsFS fs.FS

var GenID func() string
var IDAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-~"
var IDRegex = regexp.MustCompile(fmt.Sprintf("^(it|av)_[%s]{12}$", strings.ReplaceAll(IDAlphabet, "-", "\\-")))

func init() {
	var err error
	MigrationsFS, err = fs.Sub(migrationsFS, "repos/migrations")
	if err != nil {
		log.Fatal(err)
	}
	GenID, err = nanoid.CustomUnicode(IDAlphabet, 12)
	if err != nil {
		panic(err)
	}
}

type IDType string

const (
	IDTypeItem   IDType = "it"
	IDTypeAvatar IDType = "av"
)

func GenIDItem() string {
	return string(IDTypeItem) + "_" + GenID()
}

func GenIDAvatar() string {
	return string(IDTypeAvatar) + "_" + GenID()
}

func GetIDType(id string) (IDType, bool) {
	if !IDRegex.MatchString(id) {
		return "", false
	}
	return IDType(id[:strings.Index(id, "_")]), true
}

func IsIDType(id string, idType IDType) bool {
	typ, ok := GetIDType(id)
	return ok && idType == typ
}

// Reason describes why an enrichment run was triggered. Manual and force
// requests bypass cooldown and skip logic.
type Reason string

const (
	ReasonImportFile Reason = "import-file"
	ReasonPlayback   Reason = "playback"
	ReasonManual     Reason = "manual"
	ReasonForce      Reason = "force"
)

func (r Reason) Valid() bool {
	return r == ReasonImportFile || r == ReasonPlayback || r == ReasonManual || r == ReasonForce
}

// Bypass reports whether the reason overrides skip and cooldown checks.
func (r Reason) Bypass() bool {
	return r == ReasonManual || r == ReasonForce
}
