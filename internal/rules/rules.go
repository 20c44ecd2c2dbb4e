// Package rules holds the per-language/per-framework pattern tables the
// false-positive filter consults. Rule configuration is data, not code: a
// mapping from heuristic category to name/signature regex lists, compiled
// once at startup and passed into the filter by value. There is no global
// mutable state and no reload.
package rules

import (
	"fmt"
	"regexp"
	"sort"
)

// Category identifies one heuristic family of patterns.
type Category string

const (
	CategoryEntryPoint    Category = "entrypoint"
	CategoryCallback      Category = "callback"
	CategoryTest          Category = "test"
	CategoryImplicit      Category = "implicit"
	CategorySignal        Category = "signal"
	CategoryDeprecated    Category = "deprecated"
	CategoryExplicitIface Category = "explicit_interface_impl"
)

// RawPatterns is the uncompiled form of one category's patterns, as loaded
// from built-in tables or a config file overlay.
type RawPatterns struct {
	NamePatterns      []string `mapstructure:"name_patterns"`
	SignaturePatterns []string `mapstructure:"signature_patterns"`
}

// RawRuleSet maps category to uncompiled patterns for one language/framework.
type RawRuleSet map[Category]RawPatterns

// patternSet is the compiled form of RawPatterns.
type patternSet struct {
	names      []*regexp.Regexp
	signatures []*regexp.Regexp
}

// Config is the immutable, compiled rule configuration. All lookups are
// unions across every registered rule set: a name pattern from any language
// can exclude a symbol regardless of its source language. Rule sets are
// cheap to evaluate and a false exclusion is preferred over a false
// inclusion.
type Config struct {
	sets map[string]map[Category]patternSet
}

// New compiles rule sets into a Config. Pattern compilation errors name the
// offending language, category, and pattern.
func New(raw map[string]RawRuleSet) (*Config, error) {
	cfg := &Config{sets: make(map[string]map[Category]patternSet, len(raw))}

	for lang, ruleSet := range raw {
		compiled := make(map[Category]patternSet, len(ruleSet))
		for cat, patterns := range ruleSet {
			var ps patternSet
			for _, p := range patterns.NamePatterns {
				re, err := regexp.Compile(p)
				if err != nil {
					return nil, fmt.Errorf("compile %s/%s name pattern %q: %w", lang, cat, p, err)
				}
				ps.names = append(ps.names, re)
			}
			for _, p := range patterns.SignaturePatterns {
				re, err := regexp.Compile(p)
				if err != nil {
					return nil, fmt.Errorf("compile %s/%s signature pattern %q: %w", lang, cat, p, err)
				}
				ps.signatures = append(ps.signatures, re)
			}
			compiled[cat] = ps
		}
		cfg.sets[lang] = compiled
	}

	return cfg, nil
}

// Default returns the built-in rule configuration covering TypeScript/NestJS,
// Python/Django, and C#/.NET conventions.
func Default() *Config {
	cfg, err := New(builtinRuleSets)
	if err != nil {
		// Built-in tables are compiled in tests; a bad pattern here is a
		// programming error, not a runtime condition.
		panic(fmt.Sprintf("rules: invalid built-in pattern: %v", err))
	}
	return cfg
}

// Merge returns a new Config containing this Config's rule sets plus the
// given overlay. Overlay sets with the same language id extend (not replace)
// the built-in patterns.
func (c *Config) Merge(raw map[string]RawRuleSet) (*Config, error) {
	overlay, err := New(raw)
	if err != nil {
		return nil, err
	}

	merged := &Config{sets: make(map[string]map[Category]patternSet)}
	for lang, cats := range c.sets {
		copied := make(map[Category]patternSet, len(cats))
		for cat, ps := range cats {
			copied[cat] = ps
		}
		merged.sets[lang] = copied
	}
	for lang, cats := range overlay.sets {
		existing, ok := merged.sets[lang]
		if !ok {
			merged.sets[lang] = cats
			continue
		}
		for cat, ps := range cats {
			prev := existing[cat]
			prev.names = append(append([]*regexp.Regexp{}, prev.names...), ps.names...)
			prev.signatures = append(append([]*regexp.Regexp{}, prev.signatures...), ps.signatures...)
			existing[cat] = prev
		}
	}

	return merged, nil
}

// MatchName reports whether any rule set's name patterns for the category
// match the given symbol name.
func (c *Config) MatchName(cat Category, name string) bool {
	for _, cats := range c.sets {
		for _, re := range cats[cat].names {
			if re.MatchString(name) {
				return true
			}
		}
	}
	return false
}

// MatchSignature reports whether any rule set's signature patterns for the
// category match the given signature text.
func (c *Config) MatchSignature(cat Category, signature string) bool {
	if signature == "" {
		return false
	}
	for _, cats := range c.sets {
		for _, re := range cats[cat].signatures {
			if re.MatchString(signature) {
				return true
			}
		}
	}
	return false
}

// Languages returns the registered language/framework identifiers, sorted.
func (c *Config) Languages() []string {
	langs := make([]string, 0, len(c.sets))
	for lang := range c.sets {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// accessorNameRe is the get/set naming convention checked by the implicit-
// callable rule. The convention alone is not enough to exclude a symbol;
// the filter additionally requires accessor syntax in the signature so
// ordinary zero-argument methods named getFoo are not swallowed.
var accessorNameRe = regexp.MustCompile(`^(get|set|Get|Set)[A-Z_]`)

// MatchAccessorName reports whether a name follows the get/set naming
// convention.
func MatchAccessorName(name string) bool {
	return accessorNameRe.MatchString(name)
}

// ImplicitKinds are symbol kinds that are invoked implicitly by property
// access rather than by call edges.
var ImplicitKinds = map[string]bool{
	"property": true,
	"getter":   true,
	"setter":   true,
	"accessor": true,
}

// builtinRuleSets are the shipped pattern tables. Kept as plain data so new
// languages and frameworks are additions here, never filter-logic changes.
var builtinRuleSets = map[string]RawRuleSet{
	"typescript-nestjs": {
		CategoryEntryPoint: {
			NamePatterns: []string{
				`^main$`,
				`^bootstrap$`,
				`^handler$`,
				`^default$`,
			},
			SignaturePatterns: []string{
				`@(Controller|Injectable|Module|Resolver|Processor)\b`,
				`@(Get|Post|Put|Patch|Delete|Head|Options|All)\(`,
				`export\s+default\b`,
			},
		},
		CategoryCallback: {
			SignaturePatterns: []string{
				`\bon(ModuleInit|ModuleDestroy|ApplicationBootstrap|ApplicationShutdown)\b`,
				`\bng(OnInit|OnDestroy|OnChanges|AfterViewInit)\b`,
				`\bcomponent(DidMount|DidUpdate|WillUnmount)\b`,
				`\buse(Effect|Memo|Callback|State)\b`,
				`@(UseGuards|UseInterceptors|UsePipes|UseFilters)\(`,
			},
		},
		CategoryTest: {
			NamePatterns: []string{
				`^(describe|it|test|expect)$`,
				`^(beforeEach|afterEach|beforeAll|afterAll)$`,
			},
			SignaturePatterns: []string{
				`\b(describe|it|test)\s*\(`,
				`\bjest\.`,
			},
		},
		CategoryImplicit: {
			SignaturePatterns: []string{
				`\bget\s+\w+\s*\(\s*\)`,
				`\bset\s+\w+\s*\(`,
			},
		},
		CategorySignal: {
			NamePatterns: []string{
				`^on[A-Z]\w*$`,
				`\w+(Listener|Handler|Subscriber)$`,
			},
			SignaturePatterns: []string{
				`@(HostListener|On|OnEvent|SubscribeMessage)\(`,
				`\baddEventListener\s*\(`,
			},
		},
		CategoryDeprecated: {
			SignaturePatterns: []string{
				`@deprecated\b`,
			},
		},
	},

	"python-django": {
		CategoryEntryPoint: {
			NamePatterns: []string{
				`^main$`,
				`^handle$`,
				`^application$`,
				`^__\w+__$`,
			},
			SignaturePatterns: []string{
				`@app\.(route|get|post|put|patch|delete)\(`,
				`@(api_view|action|csrf_exempt)\b`,
			},
		},
		CategoryCallback: {
			SignaturePatterns: []string{
				`\b(get_queryset|get_context_data|get_serializer_class)\b`,
				`\b(form_valid|form_invalid|get_success_url)\b`,
				`\bclean(_\w+)?\s*\(`,
				`\bdef\s+(save|delete|get_absolute_url)\s*\(`,
			},
		},
		CategoryTest: {
			NamePatterns: []string{
				`^test_\w+`,
				`^(setUp|tearDown)(Class|Module)?$`,
			},
			SignaturePatterns: []string{
				`@pytest\.`,
				`\bunittest\b`,
			},
		},
		CategoryImplicit: {
			SignaturePatterns: []string{
				`@property\b`,
				`@\w+\.setter\b`,
				`@cached_property\b`,
			},
		},
		CategorySignal: {
			NamePatterns: []string{
				`^on_\w+$`,
			},
			SignaturePatterns: []string{
				`@receiver\(`,
				`\b(post_save|pre_save|post_delete|pre_delete|m2m_changed)\b`,
			},
		},
		CategoryDeprecated: {
			SignaturePatterns: []string{
				`@deprecated\b`,
				`DeprecationWarning`,
			},
		},
	},

	"csharp-dotnet": {
		CategoryEntryPoint: {
			NamePatterns: []string{
				`^Main$`,
				`^(Configure|ConfigureServices)$`,
			},
			SignaturePatterns: []string{
				`\[(HttpGet|HttpPost|HttpPut|HttpPatch|HttpDelete|Route)\b`,
				`\[ApiController\]`,
			},
		},
		CategoryCallback: {
			SignaturePatterns: []string{
				`\boverride\b`,
				`\bOn(ActionExecuting|ActionExecuted|Exception|ResultExecuting)\b`,
				`\[(Authorize|AllowAnonymous|ServiceFilter)\b`,
			},
		},
		CategoryTest: {
			NamePatterns: []string{
				`^Test[A-Z_]\w*`,
				`^Should[A-Z_]\w*`,
			},
			SignaturePatterns: []string{
				`\[(Test|TestMethod|Fact|Theory|TestCase)\b`,
				`\[(SetUp|TearDown|OneTimeSetUp|OneTimeTearDown)\]`,
			},
		},
		CategoryImplicit: {
			SignaturePatterns: []string{
				`\{\s*get\s*;`,
				`\{\s*set\s*;`,
				`\{\s*get\s*\{`,
			},
		},
		CategorySignal: {
			NamePatterns: []string{
				`^On[A-Z]\w*$`,
			},
			SignaturePatterns: []string{
				`\bevent\s+\w+`,
				`\bEventHandler\b`,
			},
		},
		CategoryDeprecated: {
			SignaturePatterns: []string{
				`\[Obsolete\b`,
			},
		},
		CategoryExplicitIface: {
			SignaturePatterns: []string{
				`\bI[A-Z]\w*\.\w+\s*\(`,
			},
		},
	},
}
