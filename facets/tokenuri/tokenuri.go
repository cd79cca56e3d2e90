// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package tokenuri is the facet serving on-chain token metadata and an SVG
// logo.
package tokenuri

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"html"
	"regexp"

	"github.com/luxfi/diamond/abi"
	"github.com/luxfi/diamond/appstate"
	"github.com/luxfi/diamond/diamond"
	"github.com/luxfi/diamond/engine"
	"github.com/luxfi/diamond/utils/wrappers"
)

const (
	TokenURISignature         = "tokenURI()"
	GetLogoSignature          = "getLogo()"
	GetMetadataSignature      = "getMetadata()"
	SetTokenMetadataSignature = "setTokenMetadata(string,string,string)"

	URIPrefix      = "data:application/json;base64,"
	imagePrefix    = "data:image/svg+xml;base64,"
	defaultColor   = "667eea"
	logoDimensions = 200
)

var (
	ErrInvalidColor = fmt.Errorf("%w: background colour must be six hex digits", engine.ErrInvalidArgument)

	colorPattern = regexp.MustCompile(`^[0-9a-fA-F]{6}$`)
)

// Metadata is the JSON document tokenURI encodes.
type Metadata struct {
	Name            string `json:"name"`
	Symbol          string `json:"symbol"`
	Description     string `json:"description"`
	ExternalURL     string `json:"external_url"`
	Image           string `json:"image"`
	BackgroundColor string `json:"background_color"`
	Decimals        uint8  `json:"decimals"`
	TotalSupply     string `json:"total_supply"`
}

func New() *engine.MethodTable {
	return engine.NewMethodTable("TokenURIFacet",
		engine.Method{Signature: TokenURISignature, Handler: tokenURI},
		engine.Method{Signature: GetLogoSignature, Handler: getLogo},
		engine.Method{Signature: GetMetadataSignature, Handler: getMetadata},
		engine.Method{Signature: SetTokenMetadataSignature, Handler: setTokenMetadata},
	)
}

// ValidColor reports whether s is a six digit hex colour without a leading
// '#'.
func ValidColor(s string) bool {
	return colorPattern.MatchString(s)
}

// Logo renders the token symbol on a rounded tile in the background colour.
func Logo(symbol, color string) string {
	if !ValidColor(color) {
		color = defaultColor
	}
	return fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" width="%[1]d" height="%[1]d" viewBox="0 0 %[1]d %[1]d">`+
			`<rect width="%[1]d" height="%[1]d" rx="24" fill="#%[2]s"/>`+
			`<circle cx="100" cy="100" r="70" fill="none" stroke="#ffffff" stroke-width="6"/>`+
			`<text x="100" y="112" font-family="Arial, sans-serif" font-size="36" font-weight="bold" fill="#ffffff" text-anchor="middle">%[3]s</text>`+
			`</svg>`,
		logoDimensions, color, html.EscapeString(symbol),
	)
}

func load(env *engine.Env) (*Metadata, error) {
	st := appstate.Open(env)
	name, err := st.Name()
	if err != nil {
		return nil, err
	}
	symbol, err := st.Symbol()
	if err != nil {
		return nil, err
	}
	decimals, err := st.Decimals()
	if err != nil {
		return nil, err
	}
	supply, err := st.TotalSupply()
	if err != nil {
		return nil, err
	}
	meta, err := st.Metadata()
	if err != nil {
		return nil, err
	}
	logo := Logo(symbol, meta.BackgroundColor)
	return &Metadata{
		Name:            name,
		Symbol:          symbol,
		Description:     meta.Description,
		ExternalURL:     meta.ExternalURL,
		Image:           imagePrefix + base64.StdEncoding.EncodeToString([]byte(logo)),
		BackgroundColor: meta.BackgroundColor,
		Decimals:        decimals,
		TotalSupply:     supply.Dec(),
	}, nil
}

func metadataJSON(env *engine.Env) ([]byte, error) {
	m, err := load(env)
	if err != nil {
		return nil, err
	}
	return json.Marshal(m)
}

func tokenURI(env *engine.Env, _ *wrappers.Packer) ([]byte, error) {
	b, err := metadataJSON(env)
	if err != nil {
		return nil, err
	}
	return abi.Return(func(p *wrappers.Packer) {
		p.PackBytes([]byte(URIPrefix + base64.StdEncoding.EncodeToString(b)))
	})
}

func getLogo(env *engine.Env, _ *wrappers.Packer) ([]byte, error) {
	st := appstate.Open(env)
	symbol, err := st.Symbol()
	if err != nil {
		return nil, err
	}
	meta, err := st.Metadata()
	if err != nil {
		return nil, err
	}
	return abi.ReturnString(Logo(symbol, meta.BackgroundColor))
}

func getMetadata(env *engine.Env, _ *wrappers.Packer) ([]byte, error) {
	b, err := metadataJSON(env)
	if err != nil {
		return nil, err
	}
	return abi.Return(func(p *wrappers.Packer) {
		p.PackBytes(b)
	})
}

func setTokenMetadata(env *engine.Env, args *wrappers.Packer) ([]byte, error) {
	meta := appstate.TokenMetadata{
		Description:     args.UnpackStr(),
		ExternalURL:     args.UnpackStr(),
		BackgroundColor: args.UnpackStr(),
	}
	if err := engine.Decoded(args); err != nil {
		return nil, err
	}
	if err := diamond.EnforceIsContractOwner(env); err != nil {
		return nil, err
	}
	if !ValidColor(meta.BackgroundColor) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidColor, meta.BackgroundColor)
	}
	if err := appstate.Open(env).SetMetadata(meta); err != nil {
		return nil, err
	}
	env.Emit("MetadataUpdated",
		engine.String("description", meta.Description),
		engine.String("externalUrl", meta.ExternalURL),
		engine.String("backgroundColor", meta.BackgroundColor),
	)
	return nil, nil
}
