/*
 * Copyright (c) SAS Institute Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package codesign

import (
	"fmt"
	"strings"

	"github.com/vnetdev/signhelpers/lib/cryptui"
)

// ChainPolicy controls which certificates from the signer's chain are
// embedded in the signature.
type ChainPolicy int

const (
	// OnlyLeafCertificate embeds only the signing certificate
	OnlyLeafCertificate ChainPolicy = iota + 1
	// FullChain embeds the entire chain
	FullChain
	// FullChainExceptRoot embeds the chain without the root. This is what the
	// zero value and any unrecognized value mean.
	FullChainExceptRoot
)

// Code returns the dwAdditionalCertChoice value for the policy
func (p ChainPolicy) Code() uint32 {
	switch p {
	case OnlyLeafCertificate:
		return cryptui.AddCertNone
	case FullChain:
		return cryptui.AddCertChain
	default:
		return cryptui.AddCertChainNoRoot
	}
}

func (p ChainPolicy) String() string {
	switch p {
	case OnlyLeafCertificate:
		return "leaf"
	case FullChain:
		return "chain"
	case FullChainExceptRoot:
		return "chain-except-root"
	default:
		return fmt.Sprintf("ChainPolicy(%d)", int(p))
	}
}

// ParseChainPolicy accepts the short names used on the command line as well
// as the long option names.
func ParseChainPolicy(s string) (ChainPolicy, error) {
	switch strings.ToLower(s) {
	case "leaf", "addonlycertificate", "onlyleafcertificate":
		return OnlyLeafCertificate, nil
	case "chain", "addfullcertificatechain", "fullchain":
		return FullChain, nil
	case "chain-except-root", "addfullcertificatechainexceptroot", "fullchainexceptroot", "":
		return FullChainExceptRoot, nil
	}
	return 0, fmt.Errorf("unknown chain policy %q", s)
}

func (p *ChainPolicy) UnmarshalText(text []byte) error {
	v, err := ParseChainPolicy(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

func (p ChainPolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}
