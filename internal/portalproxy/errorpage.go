package portalproxy

import (
	"fmt"

	"github.com/microcosm-cc/bluemonday"
)

const errorPageTemplate = `<!DOCTYPE html>
<html>
<head><title>Portal Error</title>
<style>body{background:#0a0f1e;color:coral;font-family:sans-serif;display:flex;align-items:center;justify-content:center;height:100vh;margin:0;}
.box{text-align:center;padding:40px;border:1px solid #31708f;border-radius:16px;max-width:600px;}
h1{color:#5ea5c8;margin-bottom:16px;}
p{margin:8px 0;color:#8ab0c8;}
</style>
</head>
<body>
<div class="box">
<h1>Portal Unavailable</h1>
<p>Could not connect to portal:</p>
<p style="color:coral;word-break:break-all">%s</p>
<p>Please check the portal URL in your profile configuration.</p>
</div>
</body>
</html>
`

var textPolicy = bluemonday.StrictPolicy()

// ErrorPage renders the page served with 502 when the portal cannot be reached.
func ErrorPage(target string) []byte {
	return fmt.Appendf(nil, errorPageTemplate, textPolicy.Sanitize(target))
}
