package fuzztests

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса
	maxFuzzInput = 256 << 10
)

var componentSeeds = []string{
	"",
	"<script>\nexport let name;\n</script>\n<p>{name}</p>\n",
	"<script lang=\"ts\">\nlet count = $state(0);\n$effect(() => { count = count + 1; });\n</script>\n",
	"<script>\nlet x = $state(0);\n$effect(() => { if (x > 10) return; x = x + 1; });\n</script>\n",
	"<script>\n$: doubled = count * 2;\n</script>\n<button on:click|preventDefault={go}>{doubled}</button>\n",
	"<slot name=\"header\" />\n<svelte:component this={C} />\n{#if a}{@render children()}{:else}<b>no</b>{/if}\n",
	"<script context=\"module\">\nexport const prerender = true;\n</script>\n<form method=\"POST\"><input bind:value={v}></form>\n",
	"<script>\nlet {",
	"<div {...$$restProps} class={`a ${b}`}>{#each items as item (item.id)}{item}{/each}</div>",
	"<!-- <script>export let hidden;</script> -->\n<style>p { color: red; }</style>\n",
}

var scriptSeeds = []string{
	"",
	"let cache = new Map();\nexport async function load() { return { size: cache.size }; }\n",
	"export const load = async ({ fetch }) => {\n\tconst a = await fetch('/a');\n\tconst b = await fetch('/b');\n\treturn { a, b };\n};\n",
	"import { API_KEY } from '$env/static/private';\nimport { goto } from '$app/navigation';\n",
	"const [a, b] = await Promise.all([f(), g()]);\n",
	"export let hits = 0, misses = 0;\n",
	"function (",
	"class A { #x = 1; get x() { return this.#x; } }\n",
}

// inlineCode matches `...` spans in the scaffold rule texts.
var inlineCode = regexp.MustCompile("`([^`\n]+)`")

func addComponentSeeds(f *testing.F) {
	for _, s := range componentSeeds {
		f.Add([]byte(s))
	}
}

func addScriptSeeds(f *testing.F) {
	for _, s := range scriptSeeds {
		f.Add([]byte(s))
	}
	addTemplateSeeds(f)
}

// addTemplateSeeds adds the code snippets quoted in the generated agent rules.
func addTemplateSeeds(f *testing.F) {
	matches, err := filepath.Glob(filepath.Join("..", "scaffold", "templates", "*.md"))
	if err != nil {
		return
	}
	for _, path := range matches {
		// #nosec G304 -- path comes from a fixed repository glob
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		for _, m := range inlineCode.FindAllSubmatch(data, -1) {
			f.Add(clampSeed(m[1]))
		}
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}
