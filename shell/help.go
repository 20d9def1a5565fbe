package shell

import (
	"embed"
	"strings"
)

//go:embed helptext/*.txt
var helptext embed.FS

func usage() string {
	dat, err := helptext.ReadFile("helptext/usage.txt")
	if err != nil {
		return "Error loading helptext: " + err.Error()
	}
	return strings.TrimRight(string(dat), "\n")
}

func usageTopic(topic string) string {
	dat, err := helptext.ReadFile("helptext/" + topic + ".txt")
	if err != nil {
		return "There is no help text for the topic " + topic
	}
	return strings.TrimRight(string(dat), "\n")
}

// helpTopics lists the topics with their own help page.
func helpTopics() []string {
	entries, err := helptext.ReadDir("helptext")
	if err != nil {
		return nil
	}
	var topics []string
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), ".txt")
		if name != "usage" {
			topics = append(topics, name)
		}
	}
	return topics
}
