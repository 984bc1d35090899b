package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"
	"github.com/mozillazg/go-unidecode"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/qaisjp/go-chat-markup/htmlfmt"
	"github.com/qaisjp/go-chat-markup/ircfmt"
	"github.com/qaisjp/go-chat-markup/markup"
)

type converter struct {
	mu          sync.RWMutex
	from        string
	to          string
	linkURLs    bool
	ascii       bool
	bindings    map[string]interface{}
	passthrough []glob.Glob
}

func (c *converter) decode(line string) (markup.Node, error) {
	switch c.from {
	case "irc":
		return ircfmt.Parse(line, c.linkURLs), nil
	case "human":
		return ircfmt.ParseHumanReadable(line), nil
	case "html":
		return htmlfmt.Parse(line, true)
	case "yaml":
		return markup.UnmarshalNode([]byte(strings.ReplaceAll(line, "\\n", "\n")))
	}
	return nil, errors.Errorf("unknown input format %q", c.from)
}

func (c *converter) encode(n markup.Node) (string, error) {
	switch c.to {
	case "irc":
		return ircfmt.Format(n), nil
	case "html":
		return htmlfmt.ToHTML(n, c.linkURLs), nil
	case "matrix":
		return htmlfmt.ToMatrix(n), nil
	case "markdown":
		return ircfmt.ToMarkdown(n), nil
	case "plain":
		text := markup.ToPlaintext(n)
		if c.ascii {
			text = unidecode.Unidecode(text)
		}
		return text, nil
	case "yaml":
		data, err := markup.MarshalNode(n)
		if err != nil {
			return "", err
		}
		return strings.TrimRight(string(data), "\n"), nil
	}
	return "", errors.Errorf("unknown output format %q", c.to)
}

// Convert runs one input line through decode, slot filling and encode.
// Lines matching a passthrough pattern are returned unchanged.
func (c *converter) Convert(line string) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, g := range c.passthrough {
		if g.Match(line) {
			return line, nil
		}
	}

	tree, err := c.decode(line)
	if err != nil {
		return "", errors.Wrap(err, "decoding input line")
	}
	if len(c.bindings) > 0 {
		tree = markup.FillSlots(tree, c.bindings)
	}
	out, err := c.encode(tree)
	if err != nil {
		return "", errors.Wrap(err, "encoding output line")
	}
	// Keep one output record per input line.
	return strings.ReplaceAll(out, "\n", "\\n"), nil
}

func compileGlobs(patterns []string) []glob.Glob {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			log.WithFields(log.Fields{
				"pattern": pattern,
				"error":   err,
			}).Warnln("Skipping invalid passthrough pattern")
			continue
		}
		globs = append(globs, g)
	}
	return globs
}

type bindingFlags map[string]interface{}

func (b bindingFlags) String() string { return fmt.Sprint(map[string]interface{}(b)) }

func (b bindingFlags) Set(value string) error {
	name, val, ok := strings.Cut(value, "=")
	if !ok {
		return errors.Errorf("binding %q is not in name=value form", value)
	}
	b[name] = val
	return nil
}

// splitConfigPath breaks a config file path into the name, type and
// directory viper wants. The extension is mandatory since it selects
// the config format.
func splitConfigPath(path string) (name, typ, dir string, err error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", "", "", errors.Errorf("config file %q needs an extension to determine its type", path)
	}
	name = strings.TrimSuffix(filepath.Base(path), ext)
	return name, ext[1:], filepath.Dir(path), nil
}

var validFrom = map[string]bool{"irc": true, "html": true, "human": true, "yaml": true}
var validTo = map[string]bool{
	"irc": true, "html": true, "matrix": true,
	"plain": true, "markdown": true, "yaml": true,
}

func main() {
	config := flag.String("config", "", "Config file to read configuration stuff from")
	from := flag.String("from", "irc", "Input format: irc, html, human or yaml")
	to := flag.String("to", "matrix", "Output format: irc, html, matrix, plain, markdown or yaml")
	noLinks := flag.Bool("no-links", false, "Disable automatic URL linking")
	ascii := flag.Bool("ascii", false, "Transliterate plain text output to ASCII")
	debugMode := flag.Bool("debug", false, "Debug mode? (false = use value from settings)")
	bindings := bindingFlags{}
	flag.Var(bindings, "set", "Slot binding in name=value form (repeatable)")

	flag.Parse()

	v := viper.New()
	if *config != "" {
		configName, configType, configPath, err := splitConfigPath(*config)
		if err != nil {
			log.Fatalln(err)
		}
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		v.AddConfigPath(configPath)

		log.WithFields(log.Fields{
			"ConfigName": configName,
			"ConfigType": configType,
			"ConfigPath": configPath,
		}).Infoln("Loading configuration...")

		if err := v.ReadInConfig(); err != nil {
			log.Fatalln(errors.Wrap(err, "could not read config"))
		}
	}

	v.SetDefault("from", *from)
	v.SetDefault("to", *to)
	v.SetDefault("link_urls", !*noLinks)
	v.SetDefault("ascii", *ascii)

	if !*debugMode {
		*debugMode = v.GetBool("debug")
	}
	SetLogDebug(*debugMode)

	for name, value := range v.GetStringMapString("bindings") {
		if _, overridden := bindings[name]; !overridden {
			bindings[name] = value
		}
	}

	conv := &converter{
		from:        v.GetString("from"),
		to:          v.GetString("to"),
		linkURLs:    v.GetBool("link_urls"),
		ascii:       v.GetBool("ascii"),
		bindings:    bindings,
		passthrough: compileGlobs(v.GetStringSlice("passthrough")),
	}

	if !validFrom[conv.from] {
		log.Fatalf("Unknown input format %q", conv.from)
	}
	if !validTo[conv.to] {
		log.Fatalf("Unknown output format %q", conv.to)
	}

	if *config != "" {
		patterns := v.GetStringSlice("passthrough")
		v.WatchConfig()
		v.OnConfigChange(func(e fsnotify.Event) {
			log.Println("Configuration file has changed!")

			newPatterns := v.GetStringSlice("passthrough")
			if !reflect.DeepEqual(newPatterns, patterns) {
				log.Println("Passthrough patterns updated!")
				globs := compileGlobs(newPatterns)
				conv.mu.Lock()
				conv.passthrough = globs
				conv.mu.Unlock()
				patterns = newPatterns
			}

			if debug := v.GetBool("debug"); *debugMode != debug {
				log.Printf("Debug changed from %+v to %+v", *debugMode, debug)
				*debugMode = debug
				SetLogDebug(debug)
			}

			newBindings := v.GetStringMapString("bindings")
			conv.mu.Lock()
			for name, value := range newBindings {
				conv.bindings[name] = value
			}
			conv.mu.Unlock()
		})
	}

	log.WithFields(log.Fields{
		"from": conv.from,
		"to":   conv.to,
	}).Debugln("Converting lines from stdin")

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	for scanner.Scan() {
		line := scanner.Text()
		converted, err := conv.Convert(line)
		if err != nil {
			log.WithFields(log.Fields{
				"line":  line,
				"error": err,
			}).Errorln("Could not convert line")
			continue
		}
		fmt.Fprintln(out, converted)
	}
	if err := scanner.Err(); err != nil {
		log.Fatalln(errors.Wrap(err, "reading stdin"))
	}
}

func SetLogDebug(debug bool) {
	logger := log.StandardLogger()
	if debug {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.InfoLevel)
	}
}
