package funding

import (
	"fmt"
	"net/url"
	"strings"

	"gopkg.in/yaml.v3"
)

// platformTemplates maps each recognized FUNDING.yml platform field to the
// sponsorship URL its identifiers expand into. The "custom" field is handled
// separately: its values are already URLs.
var platformTemplates = map[string]string{
	"github":           "https://github.com/sponsors/%s",
	"patreon":          "https://patreon.com/%s",
	"open_collective":  "https://opencollective.com/%s",
	"ko_fi":            "https://ko-fi.com/%s",
	"tidelift":         "https://tidelift.com/funding/github/%s",
	"community_bridge": "https://funding.communitybridge.org/projects/%s",
	"liberapay":        "https://liberapay.com/%s",
	"issuehunt":        "https://issuehunt.io/r/%s",
	"lfx_crowdfunding": "https://crowdfunding.lfx.linuxfoundation.org/projects/%s",
	"otechie":          "https://otechie.com/%s",
	"polar":            "https://polar.sh/%s",
	"buy_me_a_coffee":  "https://www.buymeacoffee.com/%s",
	"thanks_dev":       "https://thanks.dev/@%s",
}

const customField = "custom"

// ParseDeclaration extracts funding endpoints from raw FUNDING.yml content,
// preserving the order fields appear in the document. Every field accepts a
// scalar or a list of identifiers. Unknown fields, empty identifiers, and
// custom entries that are not usable URLs are skipped. Identical endpoints
// produced by different fields collapse to the first occurrence. Content
// that is not a YAML mapping yields no endpoints.
func ParseDeclaration(data []byte) []string {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil
	}

	root := doc.Content[0]
	var endpoints []string
	seen := make(map[string]bool)

	for i := 0; i+1 < len(root.Content); i += 2 {
		field := strings.TrimSpace(root.Content[i].Value)
		template, known := platformTemplates[field]
		if !known && field != customField {
			continue
		}

		for _, id := range scalarOrList(root.Content[i+1]) {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}

			var endpoint string
			if field == customField {
				u, ok := normalizeCustomURL(id)
				if !ok {
					continue
				}
				endpoint = u
			} else {
				endpoint = fmt.Sprintf(template, id)
			}

			if seen[endpoint] {
				continue
			}
			seen[endpoint] = true
			endpoints = append(endpoints, endpoint)
		}
	}
	return endpoints
}

// scalarOrList flattens a YAML value node into its scalar string values.
func scalarOrList(node *yaml.Node) []string {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return nil
		}
		return []string{node.Value}
	case yaml.SequenceNode:
		values := make([]string, 0, len(node.Content))
		for _, child := range node.Content {
			if child.Kind == yaml.ScalarNode && child.Tag != "!!null" {
				values = append(values, child.Value)
			}
		}
		return values
	default:
		return nil
	}
}

// normalizeCustomURL validates a custom funding entry. Absolute http and
// https URLs pass through unchanged; scheme-less values get https://
// prepended. Values carrying any other scheme, or that still fail to parse
// as an absolute URL, are dropped.
func normalizeCustomURL(raw string) (string, bool) {
	if u, err := url.Parse(raw); err == nil && u.Host != "" {
		if u.Scheme == "http" || u.Scheme == "https" {
			return raw, true
		}
	}
	if strings.Contains(raw, "://") {
		return "", false
	}

	withScheme := "https://" + raw
	u, err := url.Parse(withScheme)
	if err != nil || u.Host == "" {
		return "", false
	}
	return withScheme, true
}
