package enums

import "fmt"

// SocialNetwork enumerates the networks a storefront can link to.
type SocialNetwork string

const (
	SocialNetworkFacebook  SocialNetwork = "facebook"
	SocialNetworkInstagram SocialNetwork = "instagram"
	SocialNetworkTikTok    SocialNetwork = "tiktok"
	SocialNetworkWhatsApp  SocialNetwork = "whatsapp"
	SocialNetworkYouTube   SocialNetwork = "youtube"
)

var validSocialNetworks = []SocialNetwork{
	SocialNetworkFacebook,
	SocialNetworkInstagram,
	SocialNetworkTikTok,
	SocialNetworkWhatsApp,
	SocialNetworkYouTube,
}

// String implements fmt.Stringer.
func (n SocialNetwork) String() string {
	return string(n)
}

// IsValid reports whether the value is a known SocialNetwork.
func (n SocialNetwork) IsValid() bool {
	for _, candidate := range validSocialNetworks {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseSocialNetwork converts raw input into a SocialNetwork.
func ParseSocialNetwork(value string) (SocialNetwork, error) {
	for _, candidate := range validSocialNetworks {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid social network %q", value)
}
