package helpers

import (
	"fmt"
	"html"
)

func BuildVerificationHTML(name, link string) string {
	greeting := "您好！"
	if name != "" {
		greeting = fmt.Sprintf("%s，您好！", html.EscapeString(name))
	}
	return fmt.Sprintf(`
<html>
  <body style="font-family:Arial,sans-serif; background:#f9f9f9;">
    <table width="100%%" cellpadding="0" cellspacing="0" bgcolor="#f9f9f9">
      <tr>
        <td align="center" style="padding:32px 0;">
          <table width="500" bgcolor="#fff" cellpadding="24" cellspacing="0" style="border-radius:8px; box-shadow:0 1px 6px #eee;">
            <tr>
              <td>
                <h2 style="color:#7c3aed; margin-top:0;">验证您的邮箱</h2>
                <div style="font-size:16px; color:#222;">%s</div>
                <p style="margin:24px 0;">感谢注册 HooTool AI，请点击下方按钮完成邮箱验证：</p>
                <p>
                  <a href="%s" style="display:inline-block;padding:12px 24px;background:#7c3aed;color:#fff;text-decoration:none;border-radius:5px;font-weight:bold;">
                    验证邮箱
                  </a>
                </p>
                <hr style="margin:32px 0 16px 0; border:0; border-top:1px solid #eee;">
                <div style="font-size:12px; color:#999;">如果您没有注册过 HooTool AI，请忽略此邮件。</div>
              </td>
            </tr>
          </table>
        </td>
      </tr>
    </table>
  </body>
</html>
`, greeting, html.EscapeString(link))
}

func BuildPasswordResetHTML(link, ttl string) string {
	return fmt.Sprintf(`
<html>
  <body style="font-family:Arial,sans-serif; background:#f9f9f9;">
    <table width="100%%" cellpadding="0" cellspacing="0" bgcolor="#f9f9f9">
      <tr>
        <td align="center" style="padding:32px 0;">
          <table width="500" bgcolor="#fff" cellpadding="24" cellspacing="0" style="border-radius:8px; box-shadow:0 1px 6px #eee;">
            <tr>
              <td>
                <h2 style="color:#7c3aed; margin-top:0;">重置密码</h2>
                <p style="margin:24px 0;">我们收到了重置您 HooTool AI 账户密码的请求，请点击下方按钮设置新密码：</p>
                <p>
                  <a href="%s" style="display:inline-block;padding:12px 24px;background:#7c3aed;color:#fff;text-decoration:none;border-radius:5px;font-weight:bold;">
                    重置密码
                  </a>
                </p>
                <p style="font-size:14px; color:#555;">链接有效期为 %s。</p>
                <hr style="margin:32px 0 16px 0; border:0; border-top:1px solid #eee;">
                <div style="font-size:12px; color:#999;">如果这不是您本人的操作，请忽略此邮件，您的密码不会被修改。</div>
              </td>
            </tr>
          </table>
        </td>
      </tr>
    </table>
  </body>
</html>
`, html.EscapeString(link), html.EscapeString(ttl))
}
