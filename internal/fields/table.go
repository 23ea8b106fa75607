package fields

var table = []Field{
	{Property: "og:title", Name: "ogTitle"},
	{Property: "og:type", Name: "ogType"},
	{Property: "og:image", Name: "ogImage", Multiple: true},
	{Property: "og:image:url", Name: "ogImageURL", Multiple: true},
	{Property: "og:image:secure_url", Name: "ogImageSecureURL", Multiple: true},
	{Property: "og:image:width", Name: "ogImageWidth", Multiple: true},
	{Property: "og:image:height", Name: "ogImageHeight", Multiple: true},
	{Property: "og:image:type", Name: "ogImageType", Multiple: true},
	{Property: "og:url", Name: "ogUrl"},
	{Property: "og:audio", Name: "ogAudio"},
	{Property: "og:audio:url", Name: "ogAudioURL"},
	{Property: "og:audio:secure_url", Name: "ogAudioSecureURL"},
	{Property: "og:audio:type", Name: "ogAudioType"},
	{Property: "og:description", Name: "ogDescription"},
	{Property: "og:determiner", Name: "ogDeterminer"},
	{Property: "og:locale", Name: "ogLocale"},
	{Property: "og:locale:alternate", Name: "ogLocaleAlternate"},
	{Property: "og:site_name", Name: "ogSiteName"},
	{Property: "og:product:retailer_item_id", Name: "ogProductRetailerItemId"},
	{Property: "og:product:price:amount", Name: "ogProductPriceAmount"},
	{Property: "og:product:price:currency", Name: "ogProductPriceCurrency"},
	{Property: "og:product:availability", Name: "ogProductAvailability"},
	{Property: "og:product:condition", Name: "ogProductCondition"},
	{Property: "og:price:amount", Name: "ogPriceAmount"},
	{Property: "og:price:currency", Name: "ogPriceCurrency"},
	{Property: "og:availability", Name: "ogAvailability"},
	{Property: "og:video", Name: "ogVideo", Multiple: true},
	{Property: "og:video:url", Name: "ogVideo", Multiple: true},
	{Property: "og:video:secure_url", Name: "ogVideoSecureURL", Multiple: true},
	{Property: "og:video:width", Name: "ogVideoWidth", Multiple: true},
	{Property: "og:video:height", Name: "ogVideoHeight", Multiple: true},
	{Property: "og:video:type", Name: "ogVideoType", Multiple: true},
	{Property: "video:actor", Name: "videoActor", Multiple: true},
	{Property: "video:actor:role", Name: "videoActorRole", Multiple: true},
	{Property: "video:director", Name: "videoDirector", Multiple: true},
	{Property: "video:writer", Name: "videoWriter", Multiple: true},
	{Property: "video:duration", Name: "videoDuration"},
	{Property: "video:release_date", Name: "videoReleaseDate"},
	{Property: "video:tag", Name: "videoTag", Multiple: true},
	{Property: "video:series", Name: "videoSeries"},
	{Property: "twitter:card", Name: "twitterCard"},
	{Property: "twitter:site", Name: "twitterSite"},
	{Property: "twitter:site:id", Name: "twitterSiteId"},
	{Property: "twitter:creator", Name: "twitterCreator"},
	{Property: "twitter:creator:id", Name: "twitterCreatorId"},
	{Property: "twitter:title", Name: "twitterTitle"},
	{Property: "twitter:description", Name: "twitterDescription"},
	{Property: "twitter:image", Name: "twitterImage", Multiple: true},
	{Property: "twitter:image:height", Name: "twitterImageHeight", Multiple: true},
	{Property: "twitter:image:width", Name: "twitterImageWidth", Multiple: true},
	{Property: "twitter:image:src", Name: "twitterImageSrc", Multiple: true},
	{Property: "twitter:image:alt", Name: "twitterImageAlt", Multiple: true},
	{Property: "twitter:player", Name: "twitterPlayer", Multiple: true},
	{Property: "twitter:player:width", Name: "twitterPlayerWidth", Multiple: true},
	{Property: "twitter:player:height", Name: "twitterPlayerHeight", Multiple: true},
	{Property: "twitter:player:stream", Name: "twitterPlayerStream", Multiple: true},
	{Property: "twitter:app:name:iphone", Name: "twitterAppNameiPhone"},
	{Property: "twitter:app:id:iphone", Name: "twitterAppIdiPhone"},
	{Property: "twitter:app:url:iphone", Name: "twitterAppUrliPhone"},
	{Property: "twitter:app:name:ipad", Name: "twitterAppNameiPad"},
	{Property: "twitter:app:id:ipad", Name: "twitterAppIdiPad"},
	{Property: "twitter:app:url:ipad", Name: "twitterAppUrliPad"},
	{Property: "twitter:app:name:googleplay", Name: "twitterAppNameGooglePlay"},
	{Property: "twitter:app:id:googleplay", Name: "twitterAppIdGooglePlay"},
	{Property: "twitter:app:url:googleplay", Name: "twitterAppUrlGooglePlay"},
	{Property: "music:song", Name: "musicSong", Multiple: true},
	{Property: "music:song:disc", Name: "musicSongDisc", Multiple: true},
	{Property: "music:song:track", Name: "musicSongTrack", Multiple: true},
	{Property: "music:musician", Name: "musicMusician", Multiple: true},
	{Property: "music:release_date", Name: "musicReleaseDate"},
	{Property: "music:duration", Name: "musicDuration"},
	{Property: "music:creator", Name: "musicCreator", Multiple: true},
	{Property: "music:album", Name: "musicAlbum", Multiple: true},
	{Property: "music:album:disc", Name: "musicAlbumDisc"},
	{Property: "music:album:track", Name: "musicAlbumTrack"},
	{Property: "article:published_time", Name: "articlePublishedTime"},
	{Property: "article:modified_time", Name: "articleModifiedTime"},
	{Property: "article:expiration_time", Name: "articleExpirationTime"},
	{Property: "article:author", Name: "articleAuthor", Multiple: true},
	{Property: "article:section", Name: "articlePublishedTime"},
	{Property: "article:tag", Name: "articleTag", Multiple: true},
	{Property: "book:author", Name: "bookAuthor", Multiple: true},
	{Property: "book:tag", Name: "bookTag", Multiple: true},
	{Property: "book:isbn", Name: "bookIsbn"},
	{Property: "book:release_date", Name: "bookReleaseDate"},
	{Property: "profile:first_name", Name: "profileFirstName", Multiple: true},
	{Property: "profile:last_name", Name: "profileLastName", Multiple: true},
	{Property: "profile:username", Name: "profileUsername", Multiple: true},
	{Property: "profile:gender", Name: "profileGender", Multiple: true},

	// Plain document meta, usually carried on the name attribute.
	{Property: "author", Name: "author"},
	{Property: "keywords", Name: "keywords"},
	{Property: "description", Name: "description"},
	{Property: "copyright", Name: "copyright"},
	{Property: "application-name", Name: "applicationName"},
}
