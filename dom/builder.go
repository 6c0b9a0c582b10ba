package dom

import "log/slog"

// Build converts the raw flat node map into a linked tree plus the selector
// map of interactive targets.
//
// Two passes are required because children reference parents by id before
// those parent objects exist: pass 1 materializes every entry, pass 2
// resolves child-id lists. Partial extraction results are expected under
// heavy pages, so unresolvable ids and unrecognizable shapes are skipped
// with a warning rather than failing the capture. The only fatal condition
// is a payload with no map or no root id.
func Build(payload *RawPayload, logger *slog.Logger) (*Node, SelectorMap, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := payload.Validate(); err != nil {
		return nil, nil, err
	}

	nodes := make(map[string]*Node, len(payload.Map))
	selectors := make(SelectorMap)

	// Pass 1: materialize.
	for id, raw := range payload.Map {
		switch raw.Kind() {
		case KindText:
			nodes[id] = &Node{
				Tag:          TextTag,
				Text:         raw.Text,
				IsVisible:    boolOrDefault(raw.IsVisible, false),
				IsInViewport: boolOrDefault(raw.IsInViewport, true),
			}

		case KindElement:
			n := &Node{
				Tag:            raw.TagName,
				Attributes:     raw.Attributes,
				XPath:          raw.XPath,
				IsVisible:      boolOrDefault(raw.IsVisible, false),
				IsInteractive:  raw.IsInteractive,
				IsTopElement:   raw.IsTopElement,
				IsInViewport:   boolOrDefault(raw.IsInViewport, true),
				HighlightIndex: raw.HighlightIndex,
				HasShadowRoot:  raw.HasShadowRoot,
			}
			nodes[id] = n

			if raw.HighlightIndex != nil {
				idx := *raw.HighlightIndex
				if prev, ok := selectors[idx]; ok {
					// Indices are supposed to be unique within a capture; a
					// collision is an upstream bug.
					logger.Warn("dom: highlight index collision",
						"index", idx, "kept", n.Tag, "overwritten", prev.Tag)
				}
				selectors[idx] = n
			}

		default:
			logger.Warn("dom: skipping unrecognizable node shape", "id", id)
		}
	}

	// Pass 2: link. The declared child list is the source of truth; nodes
	// present in the map but never listed as anyone's child stay detached.
	for id, raw := range payload.Map {
		parent, ok := nodes[id]
		if !ok {
			continue
		}
		for _, childID := range raw.ChildIDs {
			child, ok := nodes[childID]
			if !ok {
				logger.Warn("dom: unresolvable child id",
					"parent", id, "child", childID)
				continue
			}
			child.Parent = parent
			parent.Children = append(parent.Children, child)
		}
	}

	root, ok := nodes[payload.RootID]
	if !ok {
		logger.Error("dom: root id missing from node map", "rootId", payload.RootID)
		return fallbackRoot(), selectors, nil
	}
	// The root must never appear to have a parent.
	root.Parent = nil
	return root, selectors, nil
}

func fallbackRoot() *Node {
	return &Node{
		Tag:          RootTag,
		IsVisible:    true,
		IsTopElement: true,
		IsInViewport: true,
	}
}

func boolOrDefault(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}
